package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"

	"github.com/iancoleman/strcase"
	"github.com/mitchellh/mapstructure"
	"github.com/ozroads/highways-h3/src/project_types"
	h3 "github.com/uber/h3-go/v3"
)

var DefaultOptions = project_types.ConvertOptions{
	Resolution:         8,
	MaxSegmentLength:   0.001,
	RingSize:           1,
	CoordinateDecimals: 4,
}

func DecodeSnakeCase(input interface{}) (map[string]interface{}, error) {
	output := map[string]interface{}{}
	if err := mapstructure.Decode(input, &output); err != nil {
		return nil, err
	}
	newOut := map[string]interface{}{}
	for k, v := range output {
		newOut[strcase.ToSnake(k)] = v
	}
	return newOut, nil
}

func WriteAsJsonFile(v interface{}, filePath string) error {
	base := path.Base(filePath)
	dirPath := filePath[:len(filePath)-len(base)]
	if dirPath != "" {
		if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
			return err
		}
	}

	bytes, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return os.WriteFile(filePath, bytes, 0644)
}

func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}

// ReadFileOrURL loads bytes from a local path, falling back to an http GET when
// the path doesn't exist on disk but parses as a URL.
func ReadFileOrURL(filePath string) ([]byte, error) {
	if FileExists(filePath) {
		return os.ReadFile(filePath)
	}
	url, err := url.ParseRequestURI(filePath)
	if err != nil {
		return nil, err
	}
	resp, err := http.Get(url.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected http GET status: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func ReadJsonFile(filePath string, dest interface{}) error {
	bytes, err := ReadFileOrURL(filePath)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, dest)
}

// CoverageBorder returns the cells adjacent to the coverage but not covered
// themselves.
func CoverageBorder(coverage project_types.CoverageSet) []string {
	border := []string{}
	seen := map[string]bool{}
	for cell := range coverage {
		for _, h := range h3.KRing(h3.FromString(cell), 1) {
			curr := h3.ToString(h)
			if _, covered := coverage[curr]; !covered && !seen[curr] {
				border = append(border, curr)
				seen[curr] = true
			}
		}
	}
	return border
}
