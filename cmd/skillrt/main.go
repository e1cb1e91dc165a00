// =============================================================================
// SkillRT 主入口
// =============================================================================
// 设备端技能运行时的命令行入口
//
// 使用方法:
//
//	skillrt run --skill education_assistant --payload '{"gradeLevel":9}'
//	skillrt run --config skillrt.yaml --trigger "homework help"
//	skillrt skills --config skillrt.yaml     # 列出已注册技能
//	skillrt verify --manifest m.json --sig s.b64 --key pub.b64
//	skillrt version                          # 显示版本信息
// =============================================================================

package main

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/glasslink/skillrt"
	"github.com/glasslink/skillrt/config"
	"github.com/glasslink/skillrt/manifest"
	"github.com/glasslink/skillrt/types"
)

// 版本信息（构建时注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runRun(os.Args[2:])
	case "skills":
		runSkills(os.Args[2:])
	case "verify":
		runVerify(os.Args[2:])
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// =============================================================================
// run 命令
// =============================================================================

func runRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	skillID := fs.String("skill", "", "Skill id to invoke")
	trigger := fs.String("trigger", "", "Trigger phrase to route by")
	payloadJSON := fs.String("payload", "{}", "Payload as a JSON object")
	metaJSON := fs.String("metadata", "{}", "Display metadata as a JSON object")
	fs.Parse(args)

	if *skillID == "" && *trigger == "" {
		fmt.Fprintln(os.Stderr, "run requires --skill or --trigger")
		os.Exit(1)
	}

	rt := mustRuntime(*configPath)
	defer rt.Close(context.Background())

	payload, err := parsePayload(*payloadJSON)
	if err != nil {
		fatal("parse payload", err)
	}
	var metadata map[string]string
	if err := json.Unmarshal([]byte(*metaJSON), &metadata); err != nil {
		fatal("parse metadata", err)
	}

	ctx := context.Background()
	var res types.Result[any]
	if *skillID != "" {
		res = rt.Run(ctx, *skillID, payload)
	} else {
		res = rt.RunByTrigger(ctx, *trigger, payload)
	}
	if !res.OK() {
		fatal("skill invocation failed", res.Err())
	}

	id := *skillID
	if id == "" {
		if reg, ok := rt.Registry().SkillByTrigger(*trigger); ok {
			id = reg.ID
		}
	}
	vec, _ := res.Value().([]float64)
	summary := rt.Summarize(id, vec, metadata)

	out, _ := json.MarshalIndent(map[string]any{
		"skill":   id,
		"output":  vec,
		"summary": summary,
	}, "", "  ")
	fmt.Println(string(out))
}

// =============================================================================
// skills 命令
// =============================================================================

func runSkills(args []string) {
	fs := flag.NewFlagSet("skills", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	rt := mustRuntime(*configPath)
	defer rt.Close(context.Background())

	ids := rt.Registry().ListSkills()
	if len(ids) == 0 {
		fmt.Println("no skills registered")
		return
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	triggers := rt.Registry().ListTriggers()
	if len(triggers) > 0 {
		fmt.Println("\ntriggers:")
		for _, trig := range triggers {
			fmt.Printf("  %s\n", trig)
		}
	}
}

// =============================================================================
// verify 命令
// =============================================================================

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	manifestPath := fs.String("manifest", "", "Path to manifest JSON")
	sigPath := fs.String("sig", "", "Path to base64 signature file")
	keyB64 := fs.String("key", "", "Base64 ed25519 public key")
	fs.Parse(args)

	if *manifestPath == "" || *sigPath == "" || *keyB64 == "" {
		fmt.Fprintln(os.Stderr, "verify requires --manifest, --sig and --key")
		os.Exit(1)
	}

	manifestData, err := os.ReadFile(*manifestPath)
	if err != nil {
		fatal("read manifest", err)
	}
	sigData, err := os.ReadFile(*sigPath)
	if err != nil {
		fatal("read signature", err)
	}
	pub, err := base64.StdEncoding.DecodeString(*keyB64)
	if err != nil {
		fatal("decode public key", err)
	}

	m, err := manifest.ParseManifest(manifestData)
	if err != nil {
		fatal("parse manifest", err)
	}
	canonical, err := m.CanonicalBytes()
	if err != nil {
		fatal("canonicalize manifest", err)
	}

	v := manifest.NewVerifier(ed25519.PublicKey(pub), zap.NewNop())
	if !v.Verify(canonical, string(sigData)) {
		fmt.Println("signature: INVALID")
		os.Exit(1)
	}
	fmt.Println("signature: OK")
}

// =============================================================================
// 辅助函数
// =============================================================================

func mustRuntime(configPath string) *skillrt.Runtime {
	loader := config.NewLoader()
	if configPath != "" {
		loader = loader.WithConfigPath(configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		fatal("load config", err)
	}
	rt, err := skillrt.New(cfg)
	if err != nil {
		fatal("start runtime", err)
	}
	return rt
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

// parsePayload decodes a flat JSON object into a typed payload.
func parsePayload(doc string) (types.Payload, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return nil, err
	}
	payload := make(types.Payload, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case float64:
			payload[k] = types.Number(val)
		case string:
			payload[k] = types.Text(val)
		case bool:
			payload[k] = types.Bool(val)
		case []any:
			items := make([]string, 0, len(val))
			for _, item := range val {
				if s, ok := item.(string); ok {
					items = append(items, s)
				}
			}
			payload[k] = types.TextList(items...)
		default:
			return nil, fmt.Errorf("unsupported payload value for %q", k)
		}
	}
	return payload, nil
}

func printVersion() {
	fmt.Printf("SkillRT %s\n", Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`SkillRT - on-device skill runtime

Usage:
  skillrt run --skill <id> [--config <path>] [--payload <json>] [--metadata <json>]
  skillrt run --trigger <phrase> [--config <path>] [--payload <json>]
  skillrt skills [--config <path>]
  skillrt verify --manifest <path> --sig <path> --key <base64>
  skillrt version`)
}
