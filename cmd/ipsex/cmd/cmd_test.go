package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/FavorLabs/ipsex"
	"github.com/FavorLabs/ipsex/pkg/crypto"
	"github.com/FavorLabs/ipsex/pkg/files"
	"github.com/FavorLabs/ipsex/pkg/files/mock"
	"github.com/FavorLabs/ipsex/pkg/fingerprint"
)

func runCommand(t *testing.T, opts ...option) (string, error) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]option{withHomeDir(t.TempDir()), withOutput(&out)}, opts...)
	c, err := newCommand(opts...)
	if err != nil {
		t.Fatal(err)
	}
	err = c.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := runCommand(t, withArgs("version"))
	if err != nil {
		t.Fatal(err)
	}
	if want := ipsex.Version + "\n"; out != want {
		t.Fatalf("got output %q, want %q", out, want)
	}
}

func TestFingerprintCmd(t *testing.T) {
	data := []byte("hello ipse")

	out, err := runCommand(t, withArgs("fingerprint", "-"), withInput(bytes.NewReader(data)))
	if err != nil {
		t.Fatal(err)
	}
	if want := fingerprint.Sum(data).String() + "\n"; out != want {
		t.Fatalf("got output %q, want %q", out, want)
	}

	f := fingerprint.MustNew(fingerprint.Options{Scheme: fingerprint.Binary, Hash: fingerprint.HashBlake3})
	out, err = runCommand(t,
		withArgs("fingerprint", "-", "--fingerprint-scheme", "binary", "--fingerprint-hash", fingerprint.HashBlake3),
		withInput(bytes.NewReader(data)),
	)
	if err != nil {
		t.Fatal(err)
	}
	if want := f.Sum(data).String() + "\n"; out != want {
		t.Fatalf("got output %q, want %q", out, want)
	}
}

func TestFingerprintCmdInvalidScheme(t *testing.T) {
	_, err := runCommand(t,
		withArgs("fingerprint", "-", "--fingerprint-scheme", "sparse"),
		withInput(strings.NewReader("x")),
	)
	if !errors.Is(err, fingerprint.ErrUnknownScheme) {
		t.Fatalf("got error %v, want %v", err, fingerprint.ErrUnknownScheme)
	}
}

func TestKeyNewShow(t *testing.T) {
	home := t.TempDir()

	out, err := runCommand(t, withHomeDir(home), withArgs("key", "new", "--password", "secret"))
	if err != nil {
		t.Fatal(err)
	}
	address := strings.SplitN(out, "\n", 2)[0]
	if _, err := crypto.PublicKeyFromSS58(address); err != nil {
		t.Fatalf("invalid address %q: %v", address, err)
	}
	if !strings.Contains(out, "mnemonic: ") {
		t.Fatalf("mnemonic not printed: %q", out)
	}

	out, err = runCommand(t, withHomeDir(home), withArgs("key", "show", "--password", "secret"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.SplitN(out, "\n", 2)[0]; got != address {
		t.Fatalf("got address %s, want %s", got, address)
	}

	if _, err := runCommand(t, withHomeDir(home), withArgs("key", "new", "--password", "secret")); err == nil {
		t.Fatal("expected an error for an existing key")
	}
	if _, err := runCommand(t, withHomeDir(home), withArgs("key", "show", "--password", "wrong")); err == nil {
		t.Fatal("expected an error for a wrong password")
	}
}

func TestKeyImport(t *testing.T) {
	alice, err := crypto.NewSignerFromURI("//Alice", crypto.DefaultSS58Format)
	if err != nil {
		t.Fatal(err)
	}
	home := t.TempDir()

	out, err := runCommand(t, withHomeDir(home), withArgs("key", "new", "--password", "secret", "--signer-uri", "//Alice"))
	if err != nil {
		t.Fatal(err)
	}
	if want := alice.Address() + "\n"; out != want {
		t.Fatalf("got output %q, want %q", out, want)
	}

	out, err = runCommand(t, withHomeDir(home), withArgs("key", "show", "--password", "secret"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, alice.Address()+"\n") {
		t.Fatalf("got output %q", out)
	}
}

type mockPasswordReader struct {
	passwords []string
}

func (m *mockPasswordReader) ReadPassword() (string, error) {
	if len(m.passwords) == 0 {
		return "", errors.New("no password")
	}
	p := m.passwords[0]
	m.passwords = m.passwords[1:]
	return p, nil
}

func TestKeyNewPrompt(t *testing.T) {
	r := &mockPasswordReader{passwords: []string{"one", "two"}}
	_, err := runCommand(t, withArgs("key", "new"), withPasswordReader(r))
	if err == nil || !strings.Contains(err.Error(), "passwords are not the same") {
		t.Fatalf("got error %v", err)
	}

	r = &mockPasswordReader{passwords: []string{"same", "same"}}
	out, err := runCommand(t, withArgs("key", "new"), withPasswordReader(r))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "mnemonic: ") {
		t.Fatalf("got output %q", out)
	}
}

func TestKeyShowBalanceUnreachableChain(t *testing.T) {
	home := t.TempDir()
	if _, err := runCommand(t, withHomeDir(home), withArgs("key", "new", "--password", "secret")); err != nil {
		t.Fatal(err)
	}

	_, err := runCommand(t, withHomeDir(home), withArgs("key", "show", "--password", "secret",
		"--balance", "--chain-endpoint", "ws://127.0.0.1:1", "--verbosity", "silent"))
	if err == nil {
		t.Fatal("expected an error from an unreachable chain")
	}
}

// pendingLedger never sees a submission included in a block.
type pendingLedger struct {
	*mock.Ledger
}

func (pendingLedger) SubmitCreateOrder(ctx context.Context, _ crypto.Signer, _ files.CreateOrder) error {
	<-ctx.Done()
	return ctx.Err()
}

func (pendingLedger) SubmitDeleteOrder(ctx context.Context, _ crypto.Signer, _ uint64) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestLedgerTimeout(t *testing.T) {
	alice, err := crypto.NewSignerFromURI("//Alice", crypto.DefaultSS58Format)
	if err != nil {
		t.Fatal(err)
	}
	ledger := pendingLedger{Ledger: mock.NewLedger(mock.WithOrders(files.Order{
		Owner: files.AccountID(alice.AccountID()),
		Key:   []byte("doc1"),
	}))}
	miner := "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
	flags := []string{"--signer-uri", "//Alice", "--ledger-timeout", "50ms", "--verbosity", "silent"}

	for _, tc := range []struct {
		name  string
		args  []string
		input string
	}{
		{"add", append([]string{"add", "doc2", "-", "--miner", miner}, flags...), "data"},
		{"delete", append([]string{"delete", "doc1"}, flags...), ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			start := time.Now()
			_, err := runCommand(t, withArgs(tc.args...), withInput(strings.NewReader(tc.input)), withLedger(ledger))
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("got error %v, want %v", err, context.DeadlineExceeded)
			}
			if !errors.Is(err, files.ErrLedgerSubmission) {
				t.Fatalf("got error %v, want %v", err, files.ErrLedgerSubmission)
			}
			if d := time.Since(start); d > 10*time.Second {
				t.Fatalf("command took %v", d)
			}
		})
	}
}
