package cmd

import (
	"errors"
	"fmt"
	"io"

	"lattice-schemes/keys"
	"lattice-schemes/psf"
	"lattice-schemes/signature/pfdh"
	"lattice-schemes/zq"
)

var errFingerprint = errors.New("signature was made under a different public key")

// backend runs PFDH for one PSF family on transport types.
type backend interface {
	keygen(password string) (*keys.PublicKey, *keys.SecretKey, error)
	sign(msg string, pub *keys.PublicKey, sec *keys.SecretKey, password string) (*keys.Signature, error)
	verify(msg string, pub *keys.PublicKey, sig *keys.Signature) (bool, error)
	domainCheck(rng io.Reader) error
}

type family[PF, TD any] struct {
	params   keys.Params
	scheme   *pfdh.PFDH[PF, TD, zq.IntVec, zq.Vector]
	encodePK func(keys.Params, PF) *keys.PublicKey
	decodePK func(*keys.PublicKey) (PF, error)
	encodeTD func(TD) keys.Trapdoor
	decodeTD func(keys.Trapdoor) (TD, error)
}

func newBackend(p keys.Params, opts ...pfdh.Option) (backend, error) {
	switch p.Family {
	case keys.FamilyGPV:
		s, err := pfdh.SetupGPV(p.N, p.Q, p.Width, p.SaltBits, opts...)
		if err != nil {
			return nil, err
		}
		return &family[*psf.GPVPublicKey, *psf.GPVTrapdoor]{
			params:   p,
			scheme:   s,
			encodePK: keys.PublicFromGPV,
			decodePK: (*keys.PublicKey).GPV,
			encodeTD: keys.TrapdoorFromGPV,
			decodeTD: keys.Trapdoor.GPV,
		}, nil
	case keys.FamilyRing:
		s, err := pfdh.SetupRingGPV(p.N, p.Q, p.Width, p.SaltBits, opts...)
		if err != nil {
			return nil, err
		}
		return &family[*psf.RingPublicKey, *psf.RingTrapdoor]{
			params:   p,
			scheme:   s,
			encodePK: keys.PublicFromRing,
			decodePK: (*keys.PublicKey).Ring,
			encodeTD: keys.TrapdoorFromRing,
			decodeTD: keys.Trapdoor.Ring,
		}, nil
	default:
		return nil, fmt.Errorf("unknown family %q (want %q or %q)", p.Family, keys.FamilyGPV, keys.FamilyRing)
	}
}

func (f *family[PF, TD]) keygen(password string) (*keys.PublicKey, *keys.SecretKey, error) {
	pk, td, err := f.scheme.KeyGen()
	if err != nil {
		return nil, nil, err
	}
	pub := f.encodePK(f.params, pk)
	plain := f.encodeTD(td)
	defer plain.Zero()
	sec, err := keys.Seal(password, pub, plain)
	if err != nil {
		return nil, nil, err
	}
	return pub, sec, nil
}

func (f *family[PF, TD]) sign(msg string, pub *keys.PublicKey, sec *keys.SecretKey, password string) (*keys.Signature, error) {
	if !sec.Matches(pub) {
		return nil, errors.New("secret key does not belong to the public key")
	}
	pk, err := f.decodePK(pub)
	if err != nil {
		return nil, err
	}
	plain, err := sec.Open(password)
	if err != nil {
		return nil, err
	}
	defer plain.Zero()
	td, err := f.decodeTD(plain)
	if err != nil {
		return nil, err
	}
	sig, err := f.scheme.Sign(msg, td, pk)
	if err != nil {
		return nil, err
	}
	return keys.NewSignature(pub, sig)
}

func (f *family[PF, TD]) verify(msg string, pub *keys.PublicKey, bundle *keys.Signature) (bool, error) {
	fp, err := pub.Fingerprint()
	if err != nil {
		return false, err
	}
	if bundle.Fingerprint != fp {
		return false, errFingerprint
	}
	pk, err := f.decodePK(pub)
	if err != nil {
		return false, err
	}
	sig, err := bundle.Decode()
	if err != nil {
		return false, err
	}
	return f.scheme.Verify(msg, sig, pk), nil
}

// domainCheck evaluates a domain sample under a fresh key and checks the
// image lies in the range.
func (f *family[PF, TD]) domainCheck(rng io.Reader) error {
	pk, _, err := f.scheme.KeyGen()
	if err != nil {
		return err
	}
	x, err := f.scheme.PSF().SampleDomain(rng)
	if err != nil {
		return err
	}
	if !f.scheme.PSF().CheckDomain(pk, x) {
		return fmt.Errorf("domain sample of norm %.1f rejected", x.Norm())
	}
	fx, err := f.scheme.PSF().Eval(pk, x)
	if err != nil {
		return err
	}
	if fx.Len() != f.params.N || fx.Q != f.params.Q {
		return fmt.Errorf("image in Z_%d^%d, want Z_%d^%d", fx.Q, fx.Len(), f.params.Q, f.params.N)
	}
	for _, c := range fx.Coeffs {
		if c < 0 || c >= f.params.Q {
			return fmt.Errorf("image coefficient %d outside [0,%d)", c, f.params.Q)
		}
	}
	return nil
}
