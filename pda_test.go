package ledger

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/iov-one/ledger/errors"
	"golang.org/x/crypto/ed25519"
)

func testProgramID() Address {
	h := sha256.Sum256([]byte("escrow program"))
	return h[:]
}

func seedBytes(seed uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, seed)
	return b
}

func TestFindProgramAddress(t *testing.T) {
	program := testProgramID()
	maker := bytes.Repeat([]byte{7}, AddressLength)
	seeds := [][]byte{[]byte("escrow"), maker, seedBytes(7)}

	addr, bump, err := FindProgramAddress(seeds, program)
	if err != nil {
		t.Fatalf("cannot find address: %s", err)
	}
	if err := addr.Validate(); err != nil {
		t.Fatalf("invalid address: %s", err)
	}
	if IsOnCurve(addr) {
		t.Fatal("program address must not be a curve point")
	}

	// Search is deterministic.
	again, againBump, err := FindProgramAddress(seeds, program)
	if err != nil {
		t.Fatalf("cannot find address: %s", err)
	}
	if !again.Equals(addr) || againBump != bump {
		t.Fatal("derivation is not deterministic")
	}

	// Stored bump re-derives the same address without a search.
	if err := VerifyProgramAddress(addr, seeds, bump, program); err != nil {
		t.Fatalf("cannot verify: %s", err)
	}
	created, err := CreateProgramAddress(append(seeds, []byte{bump}), program)
	if err != nil {
		t.Fatalf("cannot create: %s", err)
	}
	if !created.Equals(addr) {
		t.Fatal("create and find disagree")
	}

	// All bumps above the found one produce curve points.
	for b := 255; b > int(bump); b-- {
		if _, err := CreateProgramAddress(append(seeds, []byte{byte(b)}), program); !errors.ErrInput.Is(err) {
			t.Fatalf("bump %d should be rejected, got %v", b, err)
		}
	}
}

func TestProgramAddressDependsOnAllInputs(t *testing.T) {
	program := testProgramID()
	maker := bytes.Repeat([]byte{7}, AddressLength)

	base, _, err := FindProgramAddress([][]byte{[]byte("escrow"), maker, seedBytes(7)}, program)
	if err != nil {
		t.Fatal(err)
	}

	otherSeed, _, err := FindProgramAddress([][]byte{[]byte("escrow"), maker, seedBytes(8)}, program)
	if err != nil {
		t.Fatal(err)
	}
	if otherSeed.Equals(base) {
		t.Fatal("different seed must produce a different address")
	}

	otherMaker, _, err := FindProgramAddress([][]byte{[]byte("escrow"), bytes.Repeat([]byte{8}, AddressLength), seedBytes(7)}, program)
	if err != nil {
		t.Fatal(err)
	}
	if otherMaker.Equals(base) {
		t.Fatal("different maker must produce a different address")
	}

	otherProgram := Address(bytes.Repeat([]byte{1}, AddressLength))
	otherProg, _, err := FindProgramAddress([][]byte{[]byte("escrow"), maker, seedBytes(7)}, otherProgram)
	if err != nil {
		t.Fatal(err)
	}
	if otherProg.Equals(base) {
		t.Fatal("different program must produce a different address")
	}
}

func TestProgramAddressInvalidInput(t *testing.T) {
	program := testProgramID()

	cases := map[string]struct {
		seeds   [][]byte
		program Address
		wantErr *errors.Error
	}{
		"seed too long": {
			seeds:   [][]byte{bytes.Repeat([]byte{1}, MaxSeedLength+1)},
			program: program,
			wantErr: errors.ErrInput,
		},
		"too many seeds": {
			seeds:   make([][]byte, MaxSeeds),
			program: program,
			wantErr: errors.ErrInput,
		},
		"invalid program id": {
			seeds:   [][]byte{[]byte("escrow")},
			program: Address("short"),
			wantErr: errors.ErrInput,
		},
		"max seeds without the bump": {
			seeds:   make([][]byte, MaxSeeds-1),
			program: program,
			wantErr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, _, err := FindProgramAddress(tc.seeds, tc.program)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v error, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestVerifyProgramAddressMismatch(t *testing.T) {
	program := testProgramID()
	seeds := [][]byte{[]byte("escrow"), seedBytes(1)}
	addr, bump, err := FindProgramAddress(seeds, program)
	if err != nil {
		t.Fatal(err)
	}
	forged := Address(bytes.Repeat([]byte{9}, AddressLength))
	if err := VerifyProgramAddress(forged, seeds, bump, program); !errors.ErrInput.Is(err) {
		t.Fatalf("forged address must be rejected, got %v", err)
	}
	if err := VerifyProgramAddress(addr, [][]byte{[]byte("escrow"), seedBytes(2)}, bump, program); err == nil {
		t.Fatal("address derived from other seeds must be rejected")
	}
}

func TestPublicKeyIsOnCurve(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !IsOnCurve(pub) {
		t.Fatal("ed25519 public key must be a curve point")
	}
}
