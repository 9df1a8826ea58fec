// Command rpcdump is a small, standalone diagnostics tool for the RPC
// value codec: given a tag string, it prints the decoded grammar; given
// a captured send_args frame, it decodes and prints each argument using
// the self-describing wire framing; given a CBOR service-table snapshot,
// it lists the registered services.
//
// None of this touches a live kernel connection -- it exists purely to
// make the wire format inspectable offline, mirroring the way the
// teacher's vmc package doc-comments show a decoded message being
// printed (Example_udpServer).
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/embedded-rpc/kernrpc/kernel"
	"github.com/embedded-rpc/kernrpc/tag"
	"github.com/embedded-rpc/kernrpc/wire"
)

func main() {
	tagString := flag.String("tag", "", "print the decoded grammar for a tag signature, e.g. \"ii:i\"")
	dumpPath := flag.String("dump", "", "decode and print a captured send_args frame from this file")
	snapshotPath := flag.String("snapshot", "", "decode and print a CBOR service-table snapshot from this file")
	flag.Parse()

	if *tagString == "" && *dumpPath == "" && *snapshotPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if *tagString != "" {
		if err := printSignature(*tagString); err != nil {
			log.Fatal(err)
		}
	}
	if *dumpPath != "" {
		if err := printDump(*dumpPath); err != nil {
			log.Fatal(err)
		}
	}
	if *snapshotPath != "" {
		if err := printSnapshot(*snapshotPath); err != nil {
			log.Fatal(err)
		}
	}
}

func printSignature(signature string) error {
	argTags, returnTag, err := tag.SplitSignature([]byte(signature))
	if err != nil {
		return fmt.Errorf("rpcdump: %w", err)
	}

	fmt.Printf("args:   %s\n", tag.NewIterator(argTags).String())

	retIt := tag.NewIterator(returnTag)
	ret, err := retIt.Next()
	if err != nil {
		return fmt.Errorf("rpcdump: return tag: %w", err)
	}
	fmt.Printf("return: %s\n", ret.String())
	return nil
}

func printDump(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("rpcdump: %w", err)
	}

	stream := wire.NewStream(bytes.NewReader(data), nil)
	serviceID, args, returnTag, err := dumpArgs(stream)
	if err != nil {
		return err
	}

	fmt.Printf("service %d:\n", serviceID)
	for i, a := range args {
		fmt.Printf("  arg[%d] = %s\n", i, a)
	}
	fmt.Printf("  return tag = %q\n", returnTag)
	return nil
}

func printSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("rpcdump: %w", err)
	}

	snaps, err := kernel.DecodeSnapshot(data)
	if err != nil {
		return err
	}

	for _, s := range snaps {
		fmt.Printf("%5d  %s\n", s.ServiceID, s.Signature)
	}
	return nil
}
