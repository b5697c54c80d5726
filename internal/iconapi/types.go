package iconapi

// ServerInfo server info
type ServerInfo struct {
	Identifier string
	Backend    string
	NetworkID  string
	Contract   string
	Version    string
}

// IconInfo icon record of an account
type IconInfo struct {
	Address string `json:"address"`
	Cid     string `json:"cid"`
	Integer string `json:"integer"`
}
