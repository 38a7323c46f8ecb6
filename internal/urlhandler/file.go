package urlhandler

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Custom errors for file operations
var (
	ErrFileNotFound   = errors.New("input file not found")
	ErrFilePermission = errors.New("permission denied reading input file")
	ErrReadingFile    = errors.New("error reading input file")
	ErrWritingFile    = errors.New("error writing URL file")
)

// ReadURLsFromFile reads a file line by line, normalizes each line with NormalizeLine
// and returns the resulting URLs in file order.
// An empty file, or one holding only comments, yields an empty slice and no error.
func ReadURLsFromFile(filePath, baseOrigin string, logger zerolog.Logger) ([]string, error) {
	fileLogger := logger.With().Str("filePath", filePath).Logger()

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		fileLogger.Warn().Msg("Input file not found")
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
	}
	if err != nil {
		fileLogger.Error().Err(err).Msg("Error checking file stat")
		return nil, fmt.Errorf("error checking file %s: %w", filePath, err)
	}
	if info.IsDir() {
		fileLogger.Error().Msg("Input path is a directory, not a file")
		return nil, fmt.Errorf("%w: %s is a directory", ErrReadingFile, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsPermission(err) {
			fileLogger.Error().Err(err).Msg("Permission denied reading input file")
			return nil, fmt.Errorf("%w: %s", ErrFilePermission, filePath)
		}
		fileLogger.Error().Err(err).Msg("Error opening input file")
		return nil, fmt.Errorf("%w: %s (cause: %v)", ErrReadingFile, filePath, err)
	}
	defer file.Close()

	urls := make([]string, 0)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	totalLinesRead := 0
	skippedCount := 0

	for scanner.Scan() {
		totalLinesRead++
		line := scanner.Text()
		if totalLinesRead == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		normalizedURL, ok := NormalizeLine(line, baseOrigin)
		if !ok {
			skippedCount++
			continue
		}
		urls = append(urls, normalizedURL)
	}

	if scanErr := scanner.Err(); scanErr != nil {
		fileLogger.Error().Err(scanErr).Msg("Error during scanning of file")
		return nil, fmt.Errorf("%w: %s (scan error: %v)", ErrReadingFile, filePath, scanErr)
	}

	fileLogger.Debug().
		Int("totalLinesRead", totalLinesRead).
		Int("urlCount", len(urls)).
		Int("skippedCount", skippedCount).
		Msg("Finished processing file")

	return urls, nil
}

// WriteURLsToFile overwrites filePath with an optional comment header followed by one URL per line.
// Parent directories are created when missing.
func WriteURLsToFile(filePath, header string, urls []string) error {
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: %s (mkdir: %v)", ErrWritingFile, filePath, err)
		}
	}

	var builder strings.Builder
	if header != "" {
		if !strings.HasPrefix(header, CommentPrefix) {
			builder.WriteString(CommentPrefix + " ")
		}
		builder.WriteString(header)
		builder.WriteString("\n")
	}
	for _, u := range urls {
		builder.WriteString(u)
		builder.WriteString("\n")
	}

	if err := os.WriteFile(filePath, []byte(builder.String()), 0644); err != nil {
		return fmt.Errorf("%w: %s (cause: %v)", ErrWritingFile, filePath, err)
	}
	return nil
}
