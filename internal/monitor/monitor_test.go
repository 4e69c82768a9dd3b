package monitor

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"lattice-schemes/signature"
	"lattice-schemes/signature/pfdh"
)

func TestObserve(t *testing.T) {
	m := New("gpv")
	m.ObserveSign(1, nil)
	m.ObserveSign(3, nil)
	m.ObserveSign(128, fmt.Errorf("%w after 128 attempts", signature.ErrSamplingExhausted))
	m.ObserveSign(1, errors.New("entropy"))
	m.ObserveVerify(true)
	m.ObserveVerify(false)
	m.ObserveVerify(false)

	for _, tc := range []struct {
		result string
		want   float64
	}{
		{ResultOK, 2},
		{ResultExhausted, 1},
		{ResultError, 1},
	} {
		if got := testutil.ToFloat64(m.Signs(tc.result)); got != tc.want {
			t.Errorf("sign %s = %v, want %v", tc.result, got, tc.want)
		}
	}
	if got := testutil.ToFloat64(m.Verifies(ResultValid)); got != 1 {
		t.Errorf("verify valid = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Verifies(ResultInvalid)); got != 2 {
		t.Errorf("verify invalid = %v, want 2", got)
	}
}

func TestSchemeReportsToMonitor(t *testing.T) {
	m := New("gpv")
	s, err := pfdh.SetupGPV(4, 113, 17, 128, pfdh.WithMetrics(m))
	if err != nil {
		t.Fatal(err)
	}
	pk, sk, err := s.KeyGen()
	if err != nil {
		t.Fatal(err)
	}
	sig, err := s.Sign("Hello World!", sk, pk)
	if err != nil {
		t.Fatal(err)
	}
	s.Verify("Hello World!", sig, pk)
	s.Verify("Hello World!!", sig, pk)
	if got := testutil.ToFloat64(m.Signs(ResultOK)); got != 1 {
		t.Errorf("sign ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Verifies(ResultInvalid)); got != 1 {
		t.Errorf("verify invalid = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	m := New("ring")
	m.ObserveSign(2, nil)
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`pfdh_sign_total{family="ring",result="ok"} 1`,
		`pfdh_sign_attempts_count{family="ring"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output lacks %q:\n%s", want, body)
		}
	}
}
