package cmd

import (
	"bufio"
	"fmt"
	"os"
)

// confirmIfExists checks whether path exists, and if so asks the user
// for confirmation before letting a caller overwrite it. It returns
// true if path doesn't exist, or if the user confirmed overwriting it.
func confirmIfExists(path, msg string) (ok bool, err error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	return askForConfirmation(msg), nil
}

// askForConfirmation prints msg and reads a y/n answer from stdin,
// defaulting to no on a bare ENTER.
func askForConfirmation(msg string) bool {
	fmt.Println(msg)
	reader := bufio.NewReader(os.Stdin)
	for {
		input, _ := reader.ReadString('\n')
		if len(input) == 0 {
			return false
		}
		switch input[0] {
		case 'Y', 'y':
			return true
		case 'N', 'n', '\n':
			return false
		}
	}
}

func check(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
