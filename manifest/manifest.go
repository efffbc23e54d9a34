// Package manifest records what a build produced: every artifact in the
// build output directory with its size and SHA256, written as a YAML
// document and optionally clearsigned. The manifest outlives the transient
// working directory and is the durable record of a release.
package manifest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/clearsign"
	"go.yaml.in/yaml/v3"
)

// Artifact describes one file produced by the build.
type Artifact struct {
	// Path is the artifact's location relative to the build output
	// directory, in slash form.
	Path   string `yaml:"path"`
	Size   int64  `yaml:"size"`
	SHA256 string `yaml:"sha256"`
}

// Manifest is the durable record of a single package build.
type Manifest struct {
	Package string `yaml:"package"`
	Version string `yaml:"version"`
	// Date is the build timestamp in RFC3339. Collect fills it with the
	// current UTC time; callers may set it beforehand for deterministic
	// output.
	Date      string     `yaml:"date"`
	Artifacts []Artifact `yaml:"artifacts"`
}

// Collect walks the build output directory and returns a manifest listing
// every regular file, sorted by path for deterministic output.
func Collect(outputDir, pkg, version string) (*Manifest, error) {
	m := &Manifest{
		Package: pkg,
		Version: version,
	}

	err := filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(outputDir, path)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		hash := sha256.Sum256(data)

		m.Artifacts = append(m.Artifacts, Artifact{
			Path:   filepath.ToSlash(rel),
			Size:   int64(len(data)),
			SHA256: hex.EncodeToString(hash[:]),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect artifacts in %s: %w", outputDir, err)
	}

	sort.Slice(m.Artifacts, func(i, j int) bool {
		return m.Artifacts[i].Path < m.Artifacts[j].Path
	})
	return m, nil
}

// Encode renders the manifest as YAML. An empty Date is filled with the
// current UTC time first.
func (m *Manifest) Encode() ([]byte, error) {
	if m.Date == "" {
		m.Date = time.Now().UTC().Format(time.RFC3339)
	}
	return yaml.Marshal(m)
}

// Write stores the manifest as <pkg>-<version>-manifest.yaml under dir,
// creating dir if needed. If key holds an ASCII-armored PGP private key, a
// clearsigned copy is written alongside with the .asc suffix. It returns the
// path of the manifest file.
func (m *Manifest) Write(dir, key string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create manifest dir: %w", err)
	}

	content, err := m.Encode()
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}

	name := fmt.Sprintf("%s-%s-manifest.yaml", m.Package, m.Version)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}

	if key != "" {
		signed, err := Sign(content, key)
		if err != nil {
			return "", fmt.Errorf("sign manifest: %w", err)
		}
		if err := os.WriteFile(path+".asc", signed, 0644); err != nil {
			return "", fmt.Errorf("write signed manifest: %w", err)
		}
	}
	return path, nil
}

// Sign clearsigns input with the provided ASCII-armored PGP private key and
// returns the signed message in ASCII-armored format.
func Sign(input []byte, key string) ([]byte, error) {
	entities, err := openpgp.ReadArmoredKeyRing(strings.NewReader(key))
	if err != nil {
		return nil, err
	}
	var signer *openpgp.Entity
	for _, e := range entities {
		if e.PrivateKey != nil {
			signer = e
			break
		}
	}
	if signer == nil {
		return nil, fmt.Errorf("no private key found")
	}

	var out bytes.Buffer
	w, err := clearsign.Encode(&out, signer.PrivateKey, nil)
	if err != nil {
		return nil, err
	}
	w.Write(input)
	w.Close()
	return out.Bytes(), nil
}
