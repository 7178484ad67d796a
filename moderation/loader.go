package moderation

import (
	"bufio"
	"bytes"
	"chat-relay/errors"
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed censored/*
var censoredFolder embed.FS

// Dictionary is the merged content of the word lists, one file per language.
type Dictionary struct {
	Words     []string
	Languages []string
}

// LoadDictionary reads every .txt file of the embedded censored directory.
func LoadDictionary() (Dictionary, error) {
	return loadDictionary(censoredFolder, "censored")
}

func loadDictionary(fsys fs.FS, dir string) (Dictionary, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return Dictionary{}, err
	}

	var dictionary Dictionary
	seen := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		dictionary.Languages = append(dictionary.Languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return Dictionary{}, err
		}
		// bufio.Scanner copes with both \n and \r\n line endings
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			word := strings.TrimSpace(scanner.Text())
			if word == "" {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			dictionary.Words = append(dictionary.Words, word)
		}
		if err = scanner.Err(); err != nil {
			return Dictionary{}, err
		}
	}

	if len(dictionary.Words) == 0 {
		return Dictionary{}, errors.ErrEmptyWords
	}
	return dictionary, nil
}
