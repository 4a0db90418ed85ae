package cmd

import (
	"github.com/FavorLabs/ipsex/pkg/crypto"
	"github.com/FavorLabs/ipsex/pkg/keystore/subkey"
	"github.com/FavorLabs/ipsex/pkg/logging"
	"github.com/spf13/cobra"
)

func (c *command) keystore() *subkey.Service {
	return subkey.New(c.config.GetString(optionNameKeystoreDir), c.ss58Format())
}

func (c *command) ss58Format() uint8 {
	return uint8(c.config.GetUint(optionNameSS58Format))
}

// configureSigner returns the signer from --signer-uri, or else loads the
// named keystore key, creating it on first use.
func (c *command) configureSigner(cmd *cobra.Command, logger logging.Logger) (crypto.Signer, error) {
	if uri := c.config.GetString(optionNameSignerURI); uri != "" {
		s, err := crypto.NewSignerFromURI(uri, c.ss58Format())
		if err != nil {
			return nil, err
		}
		logger.Debugf("using signer %s from secret uri", s.Address())
		return s, nil
	}

	kt := c.keystore()
	name := c.config.GetString(optionNameKeyName)
	exists, err := kt.Exists(name)
	if err != nil {
		return nil, err
	}
	password, err := c.readPassword(cmd, exists)
	if err != nil {
		return nil, err
	}
	s, created, err := kt.Key(name, password)
	if err != nil {
		return nil, err
	}
	if created {
		logger.Infof("new signer key created: %s", s.Address())
	} else {
		logger.Debugf("using existing signer key: %s", s.Address())
	}
	return s, nil
}
