package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/starford/quire/internal/blocks"
)

type converter func(in []byte, out io.Writer) error

// convert reads path, or stdin when path is empty or "-", and writes the
// converted result to out.
func convert(path string, stdin io.Reader, out io.Writer, fn converter) error {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return fn(data, out)
}

func toBlocks(in []byte, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(blocks.FromMarkdown(string(in)))
}

func toMarkdown(in []byte, out io.Writer) error {
	var doc blocks.Document
	if err := json.Unmarshal(in, &doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	md := blocks.ToMarkdown(&doc)
	if md == "" {
		return nil
	}
	_, err := fmt.Fprintln(out, md)
	return err
}
