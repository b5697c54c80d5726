package utils

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/anyswap/iconic/ledger"
	"github.com/anyswap/iconic/params"
)

var (
	// VersionCommand version subcommand
	VersionCommand = &cli.Command{
		Action:    version,
		Name:      "version",
		Usage:     "Print version numbers",
		ArgsUsage: " ",
		Description: `
The output of this command is supposed to be machine-readable.
`,
	}
)

func version(ctx *cli.Context) error {
	fmt.Println(strings.Title(clientIdentifier))
	fmt.Println("Version:", params.VersionWithMeta)
	if gitCommit != "" {
		fmt.Println("Git Commit:", gitCommit)
	}
	if gitDate != "" {
		fmt.Println("Git Commit Date:", gitDate)
	}
	if networks := deployedNetworks(); len(networks) != 0 {
		fmt.Println("Icon Contract Networks:", strings.Join(networks, ","))
	}
	fmt.Println("Architecture:", runtime.GOARCH)
	fmt.Println("Go Version:", runtime.Version())
	fmt.Println("Operating System:", runtime.GOOS)
	fmt.Printf("GOPATH=%s\n", os.Getenv("GOPATH"))
	fmt.Printf("GOROOT=%s\n", runtime.GOROOT())
	return nil
}

// networks of the embedded contract metadata
func deployedNetworks() []string {
	metadata, err := ledger.ParseMetadata(ledger.EmbeddedMetadata())
	if err != nil {
		return nil
	}
	networks := make([]string, 0, len(metadata.Networks))
	for networkID := range metadata.Networks {
		networks = append(networks, networkID)
	}
	sort.Strings(networks)
	return networks
}
