// Package manifest verifies signed skill packages before anything in
// them reaches the registry. A package carries a manifest listing the
// content hash of every file plus a detached ed25519 signature over
// the manifest's canonical bytes.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/glasslink/skillrt/types"
)

// Manifest 描述一个技能包：版本号与文件内容哈希清单。
// 签名覆盖 CanonicalBytes 的输出，而非磁盘上的任意序列化形式。
type Manifest struct {
	Version   string            `json:"version"`
	SkillPack string            `json:"skill_pack"`
	Files     map[string]string `json:"files"`
}

// ParseManifest decodes a manifest document.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, types.NewError(types.ErrBadManifest, "parse manifest").WithCause(err)
	}
	if len(m.Files) == 0 {
		return nil, types.NewError(types.ErrBadManifest, "manifest lists no files")
	}
	return &m, nil
}

// CanonicalBytes serializes the manifest deterministically: compact
// JSON with map keys in sorted order, so signer and verifier always
// see the same bytes. encoding/json sorts map keys, which is the
// property relied on here.
func (m *Manifest) CanonicalBytes() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, types.NewError(types.ErrBadManifest, "canonicalize manifest").WithCause(err)
	}
	return data, nil
}

// FileDigest is the hex content hash recorded in manifests.
func FileDigest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// VerifyFiles checks every listed file against its recorded digest.
// Extra files not listed in the manifest are rejected outright.
func (m *Manifest) VerifyFiles(files map[string][]byte) error {
	for path := range files {
		if _, ok := m.Files[path]; !ok {
			return types.NewError(types.ErrBadManifest, "file not listed in manifest: "+path)
		}
	}
	for path, want := range m.Files {
		content, ok := files[path]
		if !ok {
			return types.NewError(types.ErrBadManifest, "manifest file missing from package: "+path)
		}
		if FileDigest(content) != want {
			return types.NewError(types.ErrBadManifest, "content hash mismatch: "+path)
		}
	}
	return nil
}
