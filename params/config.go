package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/anyswap/iconic/common"
	"github.com/anyswap/iconic/log"
)

// content store backends
const (
	IpfsBackend  = "ipfs"
	LocalBackend = "local"
)

// DefaultMaxContentSize is the default of Ipfs.MaxContentSize
const DefaultMaxContentSize = 10 * 1024 * 1024 // 10M

const (
	defaultIdentifier     = "iconic"
	defaultIpfsAPIAddress = "http://127.0.0.1:5001"
	defaultEthAPIAddress  = "http://127.0.0.1:7545"
	defaultAPIPort        = 11556
	defaultTimeout        = 60 // seconds
	defaultLocalDataDir   = "icondata"
)

var (
	iconicConfig      *IconicConfig
	loadConfigStarter sync.Once
)

// IconicConfig config items (decode from toml file)
type IconicConfig struct {
	Identifier string
	Ipfs       *IpfsConfig
	Ethereum   *EthereumConfig
	Server     *APIServerConfig `toml:",omitempty" json:",omitempty"`
}

// IpfsConfig content store config
type IpfsConfig struct {
	Backend        string // ipfs or local
	APIAddress     string `toml:",omitempty" json:",omitempty"`
	DataDir        string `toml:",omitempty" json:",omitempty"`
	Timeout        int    // seconds
	MaxContentSize int64
}

// EthereumConfig ledger mapping config
type EthereumConfig struct {
	APIAddress   string
	From         string `toml:",omitempty" json:",omitempty"`
	Gas          uint64 `toml:",omitempty" json:",omitempty"`
	GasPrice     string `toml:",omitempty" json:",omitempty"`
	Timeout      int    // seconds
	MetadataFile string `toml:",omitempty" json:",omitempty"`
}

// APIServerConfig api service config
type APIServerConfig struct {
	Port             int
	AllowedOrigins   []string
	MaxRequestsLimit int
}

// NewDefaultConfig config used when no config file is specified
func NewDefaultConfig() *IconicConfig {
	config := &IconicConfig{}
	config.SetDefaults()
	return config
}

// SetDefaults fill missing items with default values
func (c *IconicConfig) SetDefaults() {
	if c.Identifier == "" {
		c.Identifier = defaultIdentifier
	}
	if c.Ipfs == nil {
		c.Ipfs = &IpfsConfig{}
	}
	if c.Ethereum == nil {
		c.Ethereum = &EthereumConfig{}
	}
	if c.Server == nil {
		c.Server = &APIServerConfig{}
	}
	c.Ipfs.setDefaults()
	c.Ethereum.setDefaults()
	c.Server.setDefaults()
}

func (c *IpfsConfig) setDefaults() {
	if c.Backend == "" {
		c.Backend = IpfsBackend
	}
	if c.APIAddress == "" && c.Backend == IpfsBackend {
		c.APIAddress = defaultIpfsAPIAddress
	}
	if c.DataDir == "" && c.Backend == LocalBackend {
		c.DataDir = defaultLocalDataDir
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxContentSize == 0 {
		c.MaxContentSize = DefaultMaxContentSize
	}
}

func (c *EthereumConfig) setDefaults() {
	if c.APIAddress == "" {
		c.APIAddress = defaultEthAPIAddress
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

func (c *APIServerConfig) setDefaults() {
	if c.Port == 0 {
		c.Port = defaultAPIPort
	}
}

// GetIdentifier get identifier
func GetIdentifier() string {
	return GetConfig().Identifier
}

// GetConfig get iconic config
func GetConfig() *IconicConfig {
	return iconicConfig
}

// SetConfig set iconic config
func SetConfig(config *IconicConfig) {
	iconicConfig = config
}

// GetIpfsConfig get content store config
func GetIpfsConfig() *IpfsConfig {
	return GetConfig().Ipfs
}

// GetEthereumConfig get ledger config
func GetEthereumConfig() *EthereumConfig {
	return GetConfig().Ethereum
}

// GetAPIServerConfig get api server config
func GetAPIServerConfig() *APIServerConfig {
	return GetConfig().Server
}

// DecodeConfig decode and check config file
func DecodeConfig(configFile string) (*IconicConfig, error) {
	if configFile == "" {
		return nil, errors.New("no config file specified")
	}
	if !common.FileExist(configFile) {
		return nil, fmt.Errorf("config file %v not exist", configFile)
	}
	config := &IconicConfig{}
	if _, err := toml.DecodeFile(configFile, config); err != nil {
		return nil, fmt.Errorf("toml DecodeFile: %w", err)
	}
	config.SetDefaults()
	if err := config.CheckConfig(); err != nil {
		return nil, fmt.Errorf("check config failed: %w", err)
	}
	return config, nil
}

// LoadConfig load config, use default config if configFile is empty
func LoadConfig(configFile string) *IconicConfig {
	loadConfigStarter.Do(func() {
		var config *IconicConfig
		if configFile == "" {
			log.Info("no config file specified, use default config")
			config = NewDefaultConfig()
		} else {
			log.Println("Config file is", configFile)
			var err error
			config, err = DecodeConfig(configFile)
			if err != nil {
				log.Fatalf("LoadConfig error: %v", err)
			}
		}
		SetConfig(config)

		var bs []byte
		if log.JSONFormat {
			bs, _ = json.Marshal(config)
		} else {
			bs, _ = json.MarshalIndent(config, "", "  ")
		}
		log.Println("LoadConfig finished.", string(bs))
	})
	return iconicConfig
}
