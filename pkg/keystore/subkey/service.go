package subkey

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/FavorLabs/ipsex/pkg/crypto"
)

// Service is the file-based signer keystore.
//
// Each signer secret is stored in its own file, encrypted with a key
// derived from a password.
type Service struct {
	dir    string
	format uint8
}

// New creates a keystore rooted at dir. Loaded signers render their
// addresses with the given SS58 format.
func New(dir string, format uint8) *Service {
	return &Service{dir: dir, format: format}
}

func (s *Service) Exists(name string) (bool, error) {
	filename := s.keyFilename(name)

	data, err := os.ReadFile(filename)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("read private key: %w", err)
	}
	if len(data) == 0 {
		return false, nil
	}

	return true, nil
}

// Key loads the named signer, generating and storing a new one if the file
// does not exist yet.
func (s *Service) Key(name, password string) (signer crypto.Signer, created bool, err error) {
	filename := s.keyFilename(name)

	data, err := os.ReadFile(filename)
	if err != nil && !os.IsNotExist(err) {
		return nil, false, fmt.Errorf("read private key: %w", err)
	}
	if len(data) == 0 {
		signer, err = crypto.NewSigner(s.format)
		if err != nil {
			return nil, false, fmt.Errorf("generate sr25519 key: %w", err)
		}

		d, err := encryptSigner(signer, name, password)
		if err != nil {
			return nil, false, err
		}
		if err := s.write(name, d); err != nil {
			return nil, false, err
		}
		return signer, true, nil
	}

	signer, err = decryptSigner(data, password, s.format)
	if err != nil {
		return nil, false, err
	}
	return signer, false, nil
}

// ImportURI stores the signer derived from uri under name. An existing file
// is moved aside first and restored if the import fails.
func (s *Service) ImportURI(name, password, uri string) (signer crypto.Signer, err error) {
	signer, err = crypto.NewSignerFromURI(uri, s.format)
	if err != nil {
		return nil, err
	}
	d, err := encryptSigner(signer, name, password)
	if err != nil {
		return nil, err
	}

	exists, err := s.Exists(name)
	if err != nil {
		return nil, err
	}
	if exists {
		var bakFile string
		bakFile, err = s.bak(name)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err != nil {
				_ = s.restore(name, bakFile)
			}
		}()
	}
	if err = s.write(name, d); err != nil {
		return nil, err
	}
	return signer, nil
}

func (s *Service) keyFilename(name string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.key", name))
}

func (s *Service) write(name string, data []byte) (err error) {
	filename := s.keyFilename(name)
	if err = os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return err
	}
	if err = os.WriteFile(filename, data, 0600); err != nil {
		return err
	}
	return nil
}

func (s *Service) bak(name string) (bakFile string, err error) {
	filename := s.keyFilename(name)
	bakFile = filename + fmt.Sprintf(".bak.%d", time.Now().Unix())
	err = os.Rename(filename, bakFile)
	return
}

func (s *Service) restore(name, bakFile string) error {
	filename := s.keyFilename(name)
	return os.Rename(bakFile, filename)
}
