// derive_key.go prints the scheme, public key and address for a credential file.
// The file may hold any credential the wallet accepts (suiprivkey, hex,
// base64 or a mnemonic).
// Usage: go run scripts/derive_key.go <keyfile> [ed25519|secp256k1] [account]
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/suisend/suisend/internal/wallet"
	"github.com/suisend/suisend/pkg/crypto"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: derive_key <keyfile> [scheme] [account]")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var opts wallet.Options
	if len(os.Args) > 2 {
		if opts.Scheme, err = crypto.ParseScheme(os.Args[2]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if len(os.Args) > 3 {
		acct, err := strconv.ParseUint(os.Args[3], 10, 32)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		opts.Account = uint32(acct)
	}

	cred, err := wallet.ParseCredentialWith(string(data), opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer cred.Zero()

	fmt.Printf("format=%s\n", cred.Format)
	fmt.Printf("scheme=%s\n", cred.Scheme())
	if cred.Path != "" {
		fmt.Printf("path=%s\n", cred.Path)
	}
	fmt.Printf("pubkey=%s\n", hex.EncodeToString(cred.Key.PublicKey()))
	fmt.Printf("address=%s\n", cred.Address())
}
