package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zurustar/sheetstack/pkg/config"
	"github.com/zurustar/sheetstack/pkg/logger"
)

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	ConfigPath      string   // 設定ファイル（sheetstack.toml）のパス
	ProgramPath     string   // 命令リストファイル（.toml / .cbor）のパス
	LogLevel        string   // ログレベル（debug, info, warn, error）。空なら設定ファイルに従う
	LogFormat       string   // ログ形式（text, json）。空なら設定ファイルに従う
	OutputDir       string   // 実行後にシートを書き出すディレクトリ
	Interactive     bool     // 対話モード
	ContinueOnError bool     // 失敗した命令があっても残りを実行する
	SheetFiles      []string // 読み込むシートファイル（CSV / XLSX）
	ShowHelp        bool     // ヘルプ表示フラグ
}

// boolFlags は値を取らないフラグ（reorderArgs が次の引数を値として扱わないもの）
var boolFlags = map[string]bool{
	"-h": true, "--help": true, "-help": true,
	"-i": true, "--interactive": true, "-interactive": true,
	"--continue-on-error": true, "-continue-on-error": true,
}

// ParseArgs コマンドライン引数を解析してConfigを返す
func ParseArgs(args []string) (*Config, error) {
	// 引数を並べ替え：フラグを前に、位置引数を後ろに
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("sheetstack", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &Config{}

	fs.StringVar(&cfg.ConfigPath, "config", "", "設定ファイルのパス")
	fs.StringVar(&cfg.ConfigPath, "c", "", "設定ファイルのパス（短縮形）")
	fs.StringVar(&cfg.ProgramPath, "program", "", "命令リストファイルのパス")
	fs.StringVar(&cfg.ProgramPath, "p", "", "命令リストファイルのパス（短縮形）")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&cfg.LogLevel, "l", "", "ログレベル（短縮形）")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "ログ形式（text, json）")
	fs.StringVar(&cfg.OutputDir, "out", "", "出力ディレクトリ")
	fs.StringVar(&cfg.OutputDir, "o", "", "出力ディレクトリ（短縮形）")
	fs.BoolVar(&cfg.Interactive, "interactive", false, "対話モード")
	fs.BoolVar(&cfg.Interactive, "i", false, "対話モード（短縮形）")
	fs.BoolVar(&cfg.ContinueOnError, "continue-on-error", false, "エラーが発生しても実行を続ける")
	fs.BoolVar(&cfg.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&cfg.ShowHelp, "h", false, "ヘルプを表示（短縮形）")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	// 環境変数からの設定（コマンドラインフラグが優先）
	if cfg.LogLevel == "" {
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = strings.ToLower(logLevelEnv)
		}
	}
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = os.Getenv("SHEETSTACK_CONFIG")
	}
	if !cfg.Interactive {
		if env := os.Getenv("SHEETSTACK_INTERACTIVE"); env != "" {
			cfg.Interactive = env == "1" || strings.ToLower(env) == "true"
		}
	}

	// ログレベルの検証
	if cfg.LogLevel != "" {
		if _, err := logger.ParseLevel(cfg.LogLevel); err != nil {
			return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
		}
	}

	// ログ形式の検証
	switch cfg.LogFormat {
	case "", logger.FormatText, logger.FormatJSON:
	default:
		return nil, fmt.Errorf("invalid log format: %s (must be text or json)", cfg.LogFormat)
	}

	// 位置引数（シートファイル）
	cfg.SheetFiles = fs.Args()

	return cfg, nil
}

// Overrides 設定ファイルの値を上書きするコマンドライン指定を返す
func (c *Config) Overrides() config.Overrides {
	return config.Overrides{
		LogLevel:        c.LogLevel,
		LogFormat:       c.LogFormat,
		Program:         c.ProgramPath,
		OutputDir:       c.OutputDir,
		ContinueOnError: c.ContinueOnError,
		Sheets:          c.SheetFiles,
	}
}

// reorderArgs 引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string
	terminated := false

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--" 以降はすべて位置引数
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			terminated = true
			break
		}

		// フラグかどうかを判定（-または--で始まる）
		if len(arg) > 1 && arg[0] == '-' {
			flags = append(flags, arg)

			// --flag=value 形式は値を含んでいる
			if strings.Contains(arg, "=") || boolFlags[arg] {
				continue
			}

			// 次の引数が値である可能性をチェック（-l debug のような場合）
			if i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' {
				i++
				flags = append(flags, args[i])
			}
		} else {
			// 位置引数
			positional = append(positional, arg)
		}
	}

	// フラグを前に、位置引数を後ろに配置
	if terminated {
		flags = append(flags, "--")
	}
	return append(flags, positional...)
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp() {
	fmt.Fprintf(os.Stdout, `sheetstack - spreadsheet instruction stack

Usage:
  sheetstack [options] [sheet-file ...]

Arguments:
  sheet-file    読み込むシートファイル（.csv / .xlsx）。複数指定可
                シートIDは自動生成され、シート名はファイル名（拡張子なし）になる

Options:
  -c, --config <path>         設定ファイル（デフォルト: カレントディレクトリから上位へ sheetstack.toml を探索）
  -p, --program <path>        命令リストファイル（.toml / .cbor）
  -o, --out <dir>             実行後にシートを書き出すディレクトリ
  -i, --interactive           対話モード（標準入力が端末の場合、命令リスト未指定時は自動で有効）
  --continue-on-error         失敗した命令があっても残りを実行する
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: info）
  --log-format <format>       ログ形式: text, json（デフォルト: text）
  -h, --help                  このヘルプを表示

Environment Variables:
  SHEETSTACK_CONFIG=<path>    設定ファイルのパス
  SHEETSTACK_INTERACTIVE=1    対話モードを有効化
  LOG_LEVEL=<level>           ログレベル

Examples:
  sheetstack -p prog.toml input.csv -o out      命令リストを一括実行して out/ に書き出す
  sheetstack -i input.csv                       対話モードで命令を組み立てる
  sheetstack -c project/sheetstack.toml         設定ファイルに従って実行
  sheetstack --log-level debug -p prog.cbor     デバッグログを有効化
`)
}
