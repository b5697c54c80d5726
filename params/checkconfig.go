package params

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/anyswap/iconic/common"
)

// CheckConfig check iconic config
func (c *IconicConfig) CheckConfig() (err error) {
	if c.Identifier == "" {
		return errors.New("must config non empty 'Identifier'")
	}
	if c.Ipfs == nil {
		return errors.New("must config 'Ipfs'")
	}
	if err = c.Ipfs.CheckConfig(); err != nil {
		return err
	}
	if c.Ethereum == nil {
		return errors.New("must config 'Ethereum'")
	}
	if err = c.Ethereum.CheckConfig(); err != nil {
		return err
	}
	if c.Server != nil {
		if err = c.Server.CheckConfig(); err != nil {
			return err
		}
	}
	return nil
}

// CheckConfig check content store config
func (c *IpfsConfig) CheckConfig() error {
	switch c.Backend {
	case IpfsBackend:
		if err := checkURL(c.APIAddress); err != nil {
			return fmt.Errorf("wrong 'Ipfs.APIAddress': %w", err)
		}
	case LocalBackend:
		if c.DataDir == "" {
			return errors.New("must config 'Ipfs.DataDir' for local backend")
		}
	default:
		return fmt.Errorf("unknown 'Ipfs.Backend' %q", c.Backend)
	}
	if c.Timeout < 0 {
		return errors.New("'Ipfs.Timeout' must not be negative")
	}
	if c.MaxContentSize <= 0 {
		return errors.New("'Ipfs.MaxContentSize' must be positive")
	}
	return nil
}

// CheckConfig check ledger config
func (c *EthereumConfig) CheckConfig() error {
	if err := checkURL(c.APIAddress); err != nil {
		return fmt.Errorf("wrong 'Ethereum.APIAddress': %w", err)
	}
	if c.From != "" {
		if _, err := common.ParseAddress(c.From); err != nil {
			return fmt.Errorf("wrong 'Ethereum.From': %w", err)
		}
	}
	if c.GasPrice != "" {
		if _, err := common.GetBigIntFromStr(c.GasPrice); err != nil {
			return fmt.Errorf("wrong 'Ethereum.GasPrice': %w", err)
		}
	}
	if c.Timeout < 0 {
		return errors.New("'Ethereum.Timeout' must not be negative")
	}
	if c.MetadataFile != "" && !common.FileExist(common.ExpandPath(c.MetadataFile)) {
		return fmt.Errorf("'Ethereum.MetadataFile' %v not exist", c.MetadataFile)
	}
	return nil
}

// CheckConfig check api server config
func (c *APIServerConfig) CheckConfig() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("wrong 'Server.Port' %v", c.Port)
	}
	if c.MaxRequestsLimit < 0 {
		return errors.New("'Server.MaxRequestsLimit' must not be negative")
	}
	return nil
}

func checkURL(rawurl string) error {
	u, err := url.Parse(rawurl)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme in %q", rawurl)
	}
	if u.Host == "" {
		return fmt.Errorf("no host in %q", rawurl)
	}
	return nil
}
