package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zurustar/sheetstack/pkg/callstack"
	"github.com/zurustar/sheetstack/pkg/cli"
	"github.com/zurustar/sheetstack/pkg/commands"
	"github.com/zurustar/sheetstack/pkg/config"
	"github.com/zurustar/sheetstack/pkg/fileutil"
	"github.com/zurustar/sheetstack/pkg/interpreter"
	"github.com/zurustar/sheetstack/pkg/logger"
	"github.com/zurustar/sheetstack/pkg/program"
	"github.com/zurustar/sheetstack/pkg/repl"
	"github.com/zurustar/sheetstack/pkg/sheetio"
	"github.com/zurustar/sheetstack/pkg/workbook"
)

// sheetExts はディレクトリ指定時に読み込むシートファイルの拡張子
var sheetExts = []string{".csv", ".xlsx", ".xlsm"}

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config   *cli.Config
	settings *config.Config
	log      *slog.Logger

	workbook *workbook.Workbook
	registry commands.Registry
	stack    *callstack.CallStack
	encoding map[string]string // シートID → 書き出し時の文字コード

	workDir string
	stdin   io.Reader
	stdout  io.Writer
	logOut  io.Writer
}

// Option はApplicationの設定を変更する
type Option func(*Application)

// WithWorkDir 設定ファイル探索の起点ディレクトリを指定する
func WithWorkDir(dir string) Option {
	return func(app *Application) {
		app.workDir = dir
	}
}

// WithInput 対話モードの入力を指定する（指定がなければ端末から読む）
func WithInput(r io.Reader) Option {
	return func(app *Application) {
		app.stdin = r
	}
}

// WithOutput 対話モードの出力先を指定する
func WithOutput(w io.Writer) Option {
	return func(app *Application) {
		app.stdout = w
	}
}

// WithLogOutput ログの出力先を指定する
func WithLogOutput(w io.Writer) Option {
	return func(app *Application) {
		app.logOut = w
	}
}

// New Applicationを作成
func New(opts ...Option) *Application {
	app := &Application{
		workDir:  ".",
		stdout:   os.Stdout,
		logOut:   os.Stderr,
		encoding: make(map[string]string),
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Workbook 読み込まれたワークブックを返す（Run後に有効）
func (app *Application) Workbook() *workbook.Workbook {
	return app.workbook
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp()
		return nil
	}

	// 2. 設定ファイルの読み込み（コマンドライン指定で上書き）
	if err := app.loadConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 3. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.log.Info("Application started", "config_dir", app.settings.Dir)

	// 4. シートの読み込み
	if err := app.loadSheets(); err != nil {
		return fmt.Errorf("failed to load sheets: %w", err)
	}

	app.log.Info("Sheets loaded", "count", app.workbook.Len())
	for _, sh := range app.workbook.Sheets() {
		w, h := sh.Frame().Size()
		app.log.Debug("Sheet", "id", sh.ID(), "name", sh.Name(), "width", w, "height", h)
	}

	// 5. インタプリタとコールスタックの構築
	app.buildStack()

	// 6. 命令リストの読み込み
	if err := app.loadProgram(); err != nil {
		return fmt.Errorf("failed to load program: %w", err)
	}

	// 7. 対話モードまたは一括実行
	var runErr error
	if app.interactive() {
		if err := app.runShell(); err != nil {
			return fmt.Errorf("shell failed: %w", err)
		}
	} else {
		if app.settings.Program.Path == "" {
			return errors.New("no program to run (use --program or --interactive)")
		}
		runErr = app.runBatch()
	}

	// 8. シートの書き出し（失敗した命令があっても実行済みの結果は書き出す）
	if err := app.exportSheets(); err != nil {
		return errors.Join(runErr, fmt.Errorf("failed to export sheets: %w", err))
	}
	if runErr != nil {
		return fmt.Errorf("run failed: %w", runErr)
	}

	app.log.Info("Application terminated normally")
	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	cfg, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = cfg
	return nil
}

// loadConfig 設定ファイルを読み込む
// 明示的な指定がなければ作業ディレクトリから上位へ sheetstack.toml を探し、見つからなければ既定値を使う
func (app *Application) loadConfig() error {
	var (
		settings *config.Config
		err      error
	)
	if app.config.ConfigPath != "" {
		settings, err = config.Load(app.config.ConfigPath)
	} else {
		settings, err = config.FindAndLoad(app.workDir)
	}
	if err != nil {
		return err
	}
	if settings == nil {
		settings = config.Default()
	}

	settings.Merge(app.config.Overrides())
	if err := settings.Validate(); err != nil {
		return err
	}
	app.settings = settings
	return nil
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	if err := logger.InitLoggerWithFormat(app.settings.Log.Level, app.settings.Log.Format, app.logOut); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// loadSheets 設定とコマンドラインで指定されたシートファイルをワークブックに読み込む
func (app *Application) loadSheets() error {
	app.workbook = workbook.New(workbook.WithLogger(app.log))

	for _, sc := range app.settings.Sheets {
		paths, err := fileutil.ExpandPaths([]string{sc.Path}, sheetExts...)
		if err != nil {
			return err
		}
		if len(paths) > 1 && (sc.ID != "" || sc.Name != "") {
			return fmt.Errorf("%s: id and name cannot be set for a directory with %d sheet files", sc.Path, len(paths))
		}

		for _, path := range paths {
			if err := app.loadSheet(sc, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadSheet 1つのシートファイルを読み込む
func (app *Application) loadSheet(sc config.SheetConfig, path string) error {
	name := sc.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	var sh *workbook.Sheet
	if sc.ID != "" {
		var err error
		if sh, err = app.workbook.AddSheet(sc.ID, name); err != nil {
			return err
		}
	} else {
		sh = app.workbook.NewSheet(name)
	}

	opts := sheetio.Options{Encoding: sc.Encoding, Sheet: sc.Sheet}
	if err := sheetio.Import(path, sh.Frame(), opts); err != nil {
		return err
	}
	app.encoding[sh.ID()] = sc.Encoding

	app.log.Info("Sheet loaded", "id", sh.ID(), "name", name, "path", path)
	return nil
}

// buildStack コマンドレジストリ、インタプリタ、コールスタックを構築する
func (app *Application) buildStack() {
	app.registry = commands.DefaultRegistry()
	interp := interpreter.New(app.registry, app.workbook,
		interpreter.WithLogger(app.log),
		interpreter.WithLinkRecorder(app.workbook.Links()))
	app.stack = callstack.New(interp,
		callstack.WithLogger(app.log),
		callstack.WithContinueOnError(app.settings.Run.ContinueOnError))
}

// loadProgram 命令リストファイルを読み込む
func (app *Application) loadProgram() error {
	path := app.settings.Program.Path
	if path == "" {
		return nil
	}

	instructions, err := program.Load(path)
	if err != nil {
		return err
	}
	app.stack.Load(instructions)

	app.log.Info("Program loaded", "path", path, "instructions", app.stack.Len())
	for i, ins := range app.stack.Stack() {
		app.log.Debug("Instruction", "index", i, "instruction", ins.String())
	}
	return nil
}

// interactive 対話モードで起動するかどうか
// 明示的な指定がある場合、または命令リストがなく標準入力が端末の場合に対話モードになる
func (app *Application) interactive() bool {
	if app.config.Interactive {
		return true
	}
	return app.settings.Program.Path == "" && app.stdin == nil && repl.Interactive()
}

// runShell 対話シェルを実行
func (app *Application) runShell() error {
	app.log.Info("Starting interactive shell")
	session := repl.NewSession(app.workbook, app.stack, app.registry, app.stdout, repl.WithLogger(app.log))
	if app.stdin != nil {
		return repl.RunScript(session, app.stdin)
	}
	return repl.Run(session)
}

// runBatch 命令リストを最後まで実行
func (app *Application) runBatch() error {
	app.log.Info("Running program", "instructions", app.stack.Len(), "continue_on_error", app.settings.Run.ContinueOnError)

	if err := app.stack.Run(); err != nil {
		app.log.Error("Program failed", "kind", interpreter.ErrorKind(err), "cursor", app.stack.Cursor(), "error", err)
		return err
	}

	app.log.Info("Program completed")
	return nil
}

// exportSheets 出力ディレクトリが指定されていれば全シートを書き出す
// ファイル名はシート名、同名のシートがある場合はIDの先頭を付ける
func (app *Application) exportSheets() error {
	dir := app.settings.Output.Dir
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	used := make(map[string]bool)
	for _, sh := range app.workbook.Sheets() {
		base := sh.Name()
		if used[base] {
			base = base + "-" + sh.ID()[:8]
		}
		used[base] = true

		path := filepath.Join(dir, base+"."+app.settings.Output.Format)
		opts := sheetio.Options{Encoding: app.encoding[sh.ID()]}
		if err := sheetio.Export(path, sh.Frame(), opts); err != nil {
			return err
		}
		app.log.Info("Sheet exported", "id", sh.ID(), "path", path)
	}
	return nil
}
