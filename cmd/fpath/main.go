package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fpath-go/internal/app"
	"fpath-go/internal/codec"
	"fpath-go/internal/config"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "mkdir", "write").
func newApp(operation string, args []string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.Load(defaults["config_path"], defaults["base_dir"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation, strings.Join(args, " "), app.Options{
		Registry:   codec.Default(),
		Passphrase: promptPassphrase("Passphrase: "),
	})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// promptPassphrase reads a passphrase from the terminal without echo.
func promptPassphrase(prompt string) func() (string, error) {
	return func() (string, error) {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return "", fmt.Errorf("a passphrase is required but stdin is not a terminal")
		}
		fmt.Fprint(os.Stderr, prompt)
		pass, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(pass), nil
	}
}

var rootCmd = &cobra.Command{
	Use:          "fpath",
	Short:        "Path utilities: ensure directories, walk trees, read and write with codecs",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.Load(defaults["config_path"], defaults["base_dir"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:    %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Log Level:   %s\n", cfg.LogLevel)
		fmt.Printf("Dir Mode:    %s\n", cfg.Filesystem.DirMode)
		fmt.Printf("File Mode:   %s\n", cfg.Filesystem.FileMode)
		fmt.Printf("Ignore:      %s\n", strings.Join(cfg.Filesystem.Ignore, ", "))
		enabled := "all"
		if len(cfg.Codecs.Enabled) > 0 {
			enabled = strings.Join(cfg.Codecs.Enabled, ", ")
		}
		fmt.Printf("Codecs:      %s\n", enabled)
		fmt.Printf("Public Key:  %s\n", cfg.Encryption.PublicKeyPath)
		fmt.Printf("Private Key: %s\n", cfg.Encryption.PrivateKeyPath)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the key pair used by the age parser",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("keys init", args)
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := promptPassphrase("New passphrase: ")()
		if err != nil {
			return err
		}
		confirm, err := promptPassphrase("Confirm passphrase: ")()
		if err != nil {
			return err
		}
		if pass != confirm {
			return fmt.Errorf("passphrases do not match")
		}
		if pass == "" {
			return fmt.Errorf("passphrase must not be empty")
		}

		if err := a.SetupKeys(pass); err != nil {
			return err
		}
		fmt.Println("Encryption keys created.")
		return nil
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir PATH",
	Short: "Create a directory and any missing parents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("mkdir", args)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.EnsureDir(args[0])
		if err != nil {
			return err
		}
		fmt.Println(p)
		return nil
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls [PATH]",
	Short: "List a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ls", args)
		if err != nil {
			return err
		}
		defer a.Close()

		target := "."
		if len(args) > 0 {
			target = args[0]
		}

		children, err := a.List(target)
		if err != nil {
			return err
		}
		for _, c := range children {
			fmt.Println(c.Base(""))
		}
		return nil
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree [PATH]",
	Short: "Print a directory tree in walk order",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		useIgnore, _ := cmd.Flags().GetBool("ignore")

		a, err := newApp("tree", args)
		if err != nil {
			return err
		}
		defer a.Close()

		target := "."
		if len(args) > 0 {
			target = args[0]
		}

		entries, err := a.Tree(target, useIgnore)
		if err != nil {
			return err
		}
		for _, e := range entries {
			suffix := ""
			if e.IsDir {
				suffix = "/"
			}
			fmt.Printf("%s%s%s\n", strings.Repeat("  ", e.Depth), e.Path.Base(""), suffix)
		}
		return nil
	},
}

var statCmd = &cobra.Command{
	Use:   "stat PATH",
	Short: "Show what exists at a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("stat", args)
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.Stat(args[0])
		if err != nil {
			return err
		}
		if st == nil {
			fmt.Println("Does not exist.")
			return nil
		}
		fmt.Printf("Kind:     %s\n", st.Kind)
		fmt.Printf("Size:     %d\n", st.Size)
		fmt.Printf("Mode:     %s\n", st.Mode)
		fmt.Printf("Modified: %s\n", st.ModTime.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var catCmd = &cobra.Command{
	Use:   "cat PATH",
	Short: "Print a file, optionally decoded with a parser",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser, _ := cmd.Flags().GetString("parser")

		a, err := newApp("cat", args)
		if err != nil {
			return err
		}
		defer a.Close()

		v, err := a.Read(args[0], parser)
		if err != nil {
			return err
		}
		return printValue(os.Stdout, v)
	},
}

// printValue writes text and bytes as they are and anything else as JSON.
func printValue(w io.Writer, v any) error {
	switch data := v.(type) {
	case nil:
		return fmt.Errorf("file does not exist")
	case string:
		_, err := io.WriteString(w, data)
		return err
	case []byte:
		_, err := w.Write(data)
		return err
	default:
		out, err := codec.Builtin()[codec.JSON].Serialize(data)
		if err != nil {
			return fmt.Errorf("formatting value: %w", err)
		}
		_, err = w.Write(out)
		return err
	}
}

var writeCmd = &cobra.Command{
	Use:   "write PATH [DATA]",
	Short: "Write DATA or stdin to a file, creating parent directories",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser, _ := cmd.Flags().GetString("parser")

		var data []byte
		if len(args) == 2 {
			data = []byte(args[1])
		} else {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("no data given and stdin is a terminal")
			}
			var err error
			if data, err = io.ReadAll(os.Stdin); err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
		}

		a, err := newApp("write", args[:1])
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Write(args[0], data, parser)
		if err != nil {
			return err
		}
		fmt.Println(p)
		return nil
	},
}

var cpCmd = &cobra.Command{
	Use:   "cp SRC DST",
	Short: "Copy a file or directory tree",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("cp", args)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Copy(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(p)
		return nil
	},
}

var codecsCmd = &cobra.Command{
	Use:   "codecs",
	Short: "List the registered parsers",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("codecs", args)
		if err != nil {
			return err
		}
		defer a.Close()

		for _, name := range a.Codecs() {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// keys subcommands
	keysCmd.AddCommand(keysInitCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().BoolP("ignore", "i", false, "Skip entries matching configured and .fpathignore patterns")
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(catCmd)
	catCmd.Flags().StringP("parser", "p", "", "Decode the content with a registered parser")
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringP("parser", "p", "", "Encode the content with a registered parser")
	rootCmd.AddCommand(cpCmd)
	rootCmd.AddCommand(codecsCmd)
}
