package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/daogora-xyz/bip-keychain-core/entity"
	"github.com/daogora-xyz/bip-keychain-core/keychain"
	"github.com/daogora-xyz/bip-keychain-core/mnemonic"
	"github.com/daogora-xyz/bip-keychain-core/model"
	"github.com/daogora-xyz/bip-keychain-core/output"
)

// seedEnvVar carries the BIP-39 seed phrase. An environment variable is used
// instead of argv so the phrase never shows up in process listings.
const seedEnvVar = "BIP_KEYCHAIN_SEED"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "derive":
		return cmdDerive(args[1:], out, errOut)
	case "batch":
		return cmdBatch(args[1:], out, errOut)
	case "path":
		return cmdPath(args[1:], out, errOut)
	case "generate-seed":
		return cmdGenerateSeed(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "bip-keychain: semantic entity-to-key derivation")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  bip-keychain derive [--format <f>] [--hash <h>] [--hardened <bool>] <entity.json>")
	fmt.Fprintln(w, "  bip-keychain batch [--format <f>] [--workers <n>] <keychain.json>")
	fmt.Fprintln(w, "  bip-keychain path <entity.json>")
	fmt.Fprintln(w, "  bip-keychain generate-seed [--words <12|15|18|21|24>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintf(w, "  - the BIP-39 seed phrase is read from the %s environment variable\n", seedEnvVar)
	fmt.Fprintln(w, "  - formats: "+strings.Join(output.Formats(), ", "))
	fmt.Fprintln(w, "  - <keychain.json> is a JSON array of entity documents; one result line per input")
	fmt.Fprintln(w, "  - a failing entity in a batch is reported on stderr and does not abort the others")
}

// openSession builds a derivation session from the environment seed phrase.
// The returned cleanup zeroes the root secret and must run on every path.
func openSession(errOut io.Writer) (*keychain.Session, func(), int) {
	phrase := os.Getenv(seedEnvVar)
	if phrase == "" {
		fmt.Fprintf(errOut, "%s is not set\n", seedEnvVar)
		fmt.Fprintf(errOut, "set your BIP-39 seed phrase: export %s=\"your twelve word phrase...\"\n", seedEnvVar)
		return nil, nil, 2
	}
	secret, err := mnemonic.RootSecret(phrase, "")
	if err != nil {
		fmt.Fprintf(errOut, "invalid %s: %v\n", seedEnvVar, err)
		return nil, nil, 1
	}
	session, err := keychain.NewSession(secret)
	zeroBytes(secret)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return nil, nil, 1
	}
	return session, session.Close, 0
}

func cmdDerive(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("derive", flag.ContinueOnError)
	fs.SetOutput(errOut)
	format := fs.String("format", string(output.FormatSeed), "output format: "+strings.Join(output.Formats(), ", "))
	hash := fs.String("hash", "", "override the document's hash function")
	hardened := fs.String("hardened", "", "override the document's hardened flag (true|false)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: bip-keychain derive [--format <f>] [--hash <h>] [--hardened <bool>] <entity.json>")
		return 2
	}

	f, err := output.ParseFormat(*format)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	doc, code := readEntityFile(fs.Arg(0), errOut)
	if code != 0 {
		return code
	}
	if *hash != "" {
		fn, err := model.ParseHashFunction(*hash)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 2
		}
		doc.Config.HashFunction = fn
	}
	if *hardened != "" {
		h, err := strconv.ParseBool(*hardened)
		if err != nil {
			fmt.Fprintf(errOut, "invalid --hardened value %q\n", *hardened)
			return 2
		}
		doc.Config.Hardened = h
	}

	session, closeSession, code := openSession(errOut)
	if code != 0 {
		return code
	}
	defer closeSession()

	rec, err := session.Derive(doc)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	encoded, err := output.Encode(rec, f)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintln(out, encoded)
	return 0
}

func cmdBatch(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(errOut)
	format := fs.String("format", string(output.FormatSeed), "output format: "+strings.Join(output.Formats(), ", "))
	workers := fs.Int("workers", 0, "worker bound for the batch (0 = one per CPU)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: bip-keychain batch [--format <f>] [--workers <n>] <keychain.json>")
		return 2
	}

	f, err := output.ParseFormat(*format)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read keychain file: %v\n", err)
		return 1
	}
	var inputs []json.RawMessage
	if err := json.Unmarshal(data, &inputs); err != nil {
		fmt.Fprintf(errOut, "keychain file must be a JSON array of entity documents: %v\n", err)
		return 1
	}

	session, closeSession, code := openSession(errOut)
	if code != 0 {
		return code
	}
	defer closeSession()

	raw := make([][]byte, len(inputs))
	for i := range inputs {
		raw[i] = inputs[i]
	}
	results := session.DeriveBatchRaw(raw, keychain.Options{Workers: *workers})

	exit := 0
	for i, res := range results {
		if res.Err != nil {
			fmt.Fprintf(errOut, "entity %d: %v\n", i, res.Err)
			exit = 1
			continue
		}
		encoded, err := output.Encode(res.Record, f)
		if err != nil {
			fmt.Fprintf(errOut, "entity %d: %v\n", i, err)
			exit = 1
			continue
		}
		fmt.Fprintln(out, encoded)
	}
	return exit
}

func cmdPath(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("path", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: bip-keychain path <entity.json>")
		return 2
	}

	doc, code := readEntityFile(fs.Arg(0), errOut)
	if code != 0 {
		return code
	}
	session, closeSession, code := openSession(errOut)
	if code != 0 {
		return code
	}
	defer closeSession()

	rec, err := session.Derive(doc)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintln(out, rec.Path)
	return 0
}

func cmdGenerateSeed(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("generate-seed", flag.ContinueOnError)
	fs.SetOutput(errOut)
	words := fs.Int("words", 24, "number of words (12, 15, 18, 21 or 24)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	phrase, err := mnemonic.Generate(*words)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	fmt.Fprintln(errOut, "WARNING: store this phrase securely; anyone holding it can derive every key")
	fmt.Fprintln(out, phrase)
	return 0
}

func readEntityFile(path string, errOut io.Writer) (*entity.Document, int) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "read entity file: %v\n", err)
		return nil, 1
	}
	doc, err := entity.Parse(data)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return nil, 1
	}
	return doc, 0
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
