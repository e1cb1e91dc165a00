package manifest

import (
	"strings"

	"go.uber.org/zap"

	"github.com/glasslink/skillrt/features"
	"github.com/glasslink/skillrt/skills"
	"github.com/glasslink/skillrt/types"
)

// Package is a skill package as delivered to the device: the manifest
// document, its detached signature, and the package files keyed by
// path.
type Package struct {
	ManifestBytes []byte
	SignatureB64  string
	Files         map[string][]byte
}

// Installer gates skill-package installation on manifest verification.
// An invalid signature or hash mismatch leaves the registry untouched.
type Installer struct {
	verifier *Verifier
	registry *skills.Registry
	builders *features.Registry
	logger   *zap.Logger
}

// NewInstaller wires a verifier in front of the skill registry.
func NewInstaller(verifier *Verifier, registry *skills.Registry, builders *features.Registry, logger *zap.Logger) *Installer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Installer{
		verifier: verifier,
		registry: registry,
		builders: builders,
		logger:   logger.With(zap.String("component", "skill_installer")),
	}
}

// Install verifies the package end to end, then loads its skill
// definition into the registry. Order matters: signature first, then
// file hashes, then the definition itself. The registry is only
// touched after every check passes, and LoadDefinition itself is
// atomic on top of that.
func (i *Installer) Install(pkg Package, factory skills.RunnerFactory) error {
	m, err := ParseManifest(pkg.ManifestBytes)
	if err != nil {
		return err
	}

	canonical, err := m.CanonicalBytes()
	if err != nil {
		return err
	}
	if !i.verifier.Verify(canonical, pkg.SignatureB64) {
		i.logger.Warn("rejected skill package", zap.String("pack", m.SkillPack))
		return types.NewError(types.ErrSignatureInvalid, "manifest signature verification failed")
	}

	if err := m.VerifyFiles(pkg.Files); err != nil {
		return err
	}

	defData, ok := definitionFile(pkg.Files)
	if !ok {
		return types.NewError(types.ErrBadManifest, "package contains no skill definition")
	}

	if err := i.registry.LoadDefinition(defData, i.builders, factory); err != nil {
		return err
	}
	i.logger.Info("skill package installed",
		zap.String("pack", m.SkillPack),
		zap.String("version", m.Version),
	)
	return nil
}

// definitionFile picks the definition document out of the package:
// the conventional skills.yaml / skills.json name wins, else the first
// yaml or json file found.
func definitionFile(files map[string][]byte) ([]byte, bool) {
	for _, name := range []string{"skills.yaml", "skills.yml", "skills.json"} {
		if data, ok := files[name]; ok {
			return data, true
		}
	}
	for path, data := range files {
		if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".json") {
			return data, true
		}
	}
	return nil, false
}
