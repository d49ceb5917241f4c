package util

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Stdin and Stdout are where prompts read answers from and write questions to.
var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
)

var (
	reader   *bufio.Reader
	readerOf io.Reader
)

func readLine() (string, error) {
	if reader == nil || readerOf != Stdin {
		reader, readerOf = bufio.NewReader(Stdin), Stdin
	}
	response, err := reader.ReadString('\n')
	if err != nil && !(err == io.EOF && response != "") {
		return "", err
	}
	return strings.TrimSpace(response), nil
}

func PromptString(prompt string, def string) string {
	fmt.Fprintf(Stdout, "%s (%s): ", prompt, def)

	response, err := readLine()
	if err != nil || response == "" {
		return def
	}

	return response
}

func PromptYN(prompt string, def bool) bool {
	if def {
		fmt.Fprintf(Stdout, "%s (Y/n): ", prompt)
	} else {
		fmt.Fprintf(Stdout, "%s (y/N): ", prompt)
	}

	response, err := readLine()
	if err != nil || response == "" {
		return def
	}

	return strings.ToLower(response) == "y"
}
