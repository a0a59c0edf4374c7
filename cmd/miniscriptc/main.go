// Command miniscriptc is a small CLI around the miniscript package: it
// compiles a single-key spending policy into a script and prints it, or
// parses a hex script back into its typed representation.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pkt-cash/miniscript/btcec"
	"github.com/pkt-cash/miniscript/internal/buildinfo"
	"github.com/pkt-cash/miniscript/miniscript"
	"github.com/pkt-cash/miniscript/miniscript/policy"
)

func usage() {
	fmt.Print("Usage: miniscriptc compile-key <pubkey-hex>\n" +
		"       miniscriptc parse <script-hex>\n")
}

func main() {
	buildinfo.SetUserAgentName("miniscriptc")
	if len(os.Args) != 3 {
		usage()
		os.Exit(100)
	}

	switch os.Args[1] {
	case "compile-key":
		pkBytes, err := hex.DecodeString(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, "Malformed hex pubkey")
			os.Exit(100)
		}
		pk, errr := btcec.ParsePubKey(pkBytes)
		if errr != nil {
			fmt.Fprintln(os.Stderr, "Invalid public key:", errr.Message())
			os.Exit(100)
		}
		tree, errr := miniscript.Compile(policy.NewKey(pk))
		if errr != nil {
			fmt.Fprintln(os.Stderr, "Compile failed:", errr.Message())
			os.Exit(100)
		}
		fmt.Println(hex.EncodeToString(miniscript.Serialize(tree)))

	case "parse":
		scriptBytes, err := hex.DecodeString(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, "Malformed hex script")
			os.Exit(100)
		}
		tree, errr := miniscript.Parse(scriptBytes)
		if errr != nil {
			fmt.Fprintln(os.Stderr, "Parse failed:", errr.Message())
			os.Exit(100)
		}
		keys := miniscript.RequiredKeys(tree)
		fmt.Printf("OK: %d required key(s)\n", len(keys))
		for _, k := range keys {
			fmt.Println(" ", hex.EncodeToString(k.Serialize()))
		}

	default:
		usage()
		os.Exit(100)
	}
}
