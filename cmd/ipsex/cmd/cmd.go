package cmd

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FavorLabs/ipsex/pkg/backend"
	"github.com/FavorLabs/ipsex/pkg/crypto"
	"github.com/FavorLabs/ipsex/pkg/files"
	"github.com/FavorLabs/ipsex/pkg/fingerprint"
	"github.com/FavorLabs/ipsex/pkg/logging"
	"github.com/FavorLabs/ipsex/pkg/node"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	optionNameChainEndpoint      = "chain-endpoint"
	optionNameMinerURL           = "miner-url"
	optionNameIPFSURL            = "ipfs-url"
	optionNameSignerURI          = "signer-uri"
	optionNameKeystoreDir        = "keystore-dir"
	optionNameKeyName            = "key-name"
	optionNamePassword           = "password"
	optionNamePasswordFile       = "password-file"
	optionNameSS58Format         = "ss58-format"
	optionNameDataDir            = "data-dir"
	optionNameVerbosity          = "verbosity"
	optionNameRequestTimeout     = "request-timeout"
	optionNameLedgerTimeout      = "ledger-timeout"
	optionNameChunkSize          = "chunk-size"
	optionNameFingerprintScheme  = "fingerprint-scheme"
	optionNameFingerprintHash    = "fingerprint-hash"
	optionNameAPIAddr            = "api-addr"
	optionNameCORSAllowedOrigins = "cors-allowed-origins"
)

type command struct {
	root           *cobra.Command
	config         *viper.Viper
	passwordReader passwordReader
	cfgFile        string
	homeDir        string
	// ledger replaces the chain backed ledger in tests
	ledger files.Ledger
}

type option func(*command)

func newCommand(opts ...option) (c *command, err error) {
	c = &command{
		root: &cobra.Command{
			Use:           "ipsex",
			Short:         "Store files on the IPSE ledger and its storage miners",
			SilenceErrors: true,
			SilenceUsage:  true,
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
				if err := c.initConfig(); err != nil {
					return err
				}
				return c.config.BindPFlags(cmd.Flags())
			},
		},
	}

	for _, o := range opts {
		o(c)
	}
	if c.passwordReader == nil {
		c.passwordReader = new(stdInPasswordReader)
	}

	// Find home directory.
	if err := c.setHomeDir(); err != nil {
		return nil, err
	}

	c.initGlobalFlags()

	c.initAddCmd()
	c.initGetCmd()
	c.initDeleteCmd()
	c.initOrdersCmd()
	c.initMinerCmd()
	c.initFingerprintCmd()
	c.initKeyCmd()
	c.initServeCmd()
	c.initVersionCmd()

	return c, nil
}

func (c *command) Execute() (err error) {
	return c.root.Execute()
}

// Execute parses command line arguments and runs appropriate functions.
func Execute() (err error) {
	c, err := newCommand()
	if err != nil {
		return err
	}
	return c.Execute()
}

func (c *command) initGlobalFlags() {
	globalFlags := c.root.PersistentFlags()
	globalFlags.StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.ipsex.yaml)")

	globalFlags.String(optionNameChainEndpoint, "ws://127.0.0.1:9944", "substrate node websocket endpoint")
	globalFlags.String(optionNameMinerURL, "", "base URL of the storage miner")
	globalFlags.String(optionNameIPFSURL, backend.DefaultIPFSURL, "base URL of the IPFS HTTP API")
	globalFlags.String(optionNameSignerURI, "", "signer secret URI, overrides the keystore")
	globalFlags.String(optionNameKeystoreDir, filepath.Join(c.homeDir, ".ipsex", "keys"), "keystore directory")
	globalFlags.String(optionNameKeyName, "signer", "name of the signer key in the keystore")
	globalFlags.String(optionNamePassword, "", "password for decrypting keys")
	globalFlags.String(optionNamePasswordFile, "", "path to a file that contains password for decrypting keys")
	globalFlags.Uint8(optionNameSS58Format, crypto.DefaultSS58Format, "SS58 address format")
	globalFlags.String(optionNameDataDir, filepath.Join(c.homeDir, ".ipsex"), "data directory")
	globalFlags.String(optionNameVerbosity, "info", "log verbosity level 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace")
	globalFlags.Duration(optionNameRequestTimeout, backend.DefaultTimeout, "timeout of storage backend requests")
	globalFlags.Duration(optionNameLedgerTimeout, node.DefaultLedgerTimeout, "timeout of ledger calls including the wait for block inclusion, negative disables it")
	globalFlags.Int(optionNameChunkSize, fingerprint.DefaultChunkSize, "fingerprint chunk size in bytes")
	globalFlags.String(optionNameFingerprintScheme, string(fingerprint.OrderedTrie), "fingerprint scheme: trie or binary")
	globalFlags.String(optionNameFingerprintHash, fingerprint.HashKeccak256, "fingerprint hash: "+strings.Join(fingerprint.Hashes(), ", "))
}

func (c *command) initConfig() (err error) {
	config := viper.New()
	configName := ".ipsex"
	if c.cfgFile != "" {
		// Use config file from the flag.
		config.SetConfigFile(c.cfgFile)
	} else {
		// Search config in home directory with name ".ipsex" (without extension).
		config.AddConfigPath(c.homeDir)
		config.SetConfigName(configName)
	}

	// Environment
	config.SetEnvPrefix("ipsex")
	config.AutomaticEnv() // read in environment variables that match
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if c.homeDir != "" && c.cfgFile == "" {
		c.cfgFile = filepath.Join(c.homeDir, configName+".yaml")
	}

	// If a config file is found, read it in.
	if err := config.ReadInConfig(); err != nil {
		var e viper.ConfigFileNotFoundError
		if !errors.As(err, &e) && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	c.config = config
	return nil
}

func (c *command) setHomeDir() (err error) {
	if c.homeDir != "" {
		return
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	c.homeDir = dir
	return nil
}

func (c *command) newLogger(cmd *cobra.Command) (logging.Logger, error) {
	level, err := logging.ParseLevel(c.config.GetString(optionNameVerbosity))
	if err != nil {
		return nil, err
	}
	logger := logging.New(cmd.ErrOrStderr(), level)
	logging.SetDefault(logger)
	return logger, nil
}

func (c *command) fingerprintOptions() fingerprint.Options {
	return fingerprint.Options{
		ChunkSize: c.config.GetInt(optionNameChunkSize),
		Scheme:    fingerprint.Scheme(c.config.GetString(optionNameFingerprintScheme)),
		Hash:      c.config.GetString(optionNameFingerprintHash),
	}
}

func (c *command) requestTimeout() time.Duration {
	return c.config.GetDuration(optionNameRequestTimeout)
}

func (c *command) ledgerTimeout() time.Duration {
	return c.config.GetDuration(optionNameLedgerTimeout)
}

// readInput reads the named file, "-" reads stdin.
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}

func withArgs(args ...string) option {
	return func(c *command) {
		c.root.SetArgs(args)
	}
}

func withInput(r io.Reader) option {
	return func(c *command) {
		c.root.SetIn(r)
	}
}

func withOutput(w io.Writer) option {
	return func(c *command) {
		c.root.SetOut(w)
		c.root.SetErr(w)
	}
}

func withHomeDir(dir string) option {
	return func(c *command) {
		c.homeDir = dir
	}
}

func withLedger(l files.Ledger) option {
	return func(c *command) {
		c.ledger = l
	}
}

func withPasswordReader(r passwordReader) option {
	return func(c *command) {
		c.passwordReader = r
	}
}
