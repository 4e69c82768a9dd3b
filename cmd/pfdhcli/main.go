// Command pfdhcli generates PFDH keys, signs and verifies messages.
package main

import (
	"flag"

	"github.com/golang/glog"

	"lattice-schemes/cmd/pfdhcli/cmd"
)

func main() {
	// glog registers on the standard flag set, which cobra parses.
	flag.CommandLine.Parse([]string{})
	defer glog.Flush()
	cmd.Execute()
}
