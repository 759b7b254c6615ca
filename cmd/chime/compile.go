package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/vsariola/chime/compiler"
)

var (
	compileTarget  string
	compileTmplDir string
	compileDir     string
	compileStdout  bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [cue.yml]",
	Short: "Generate source code that plays a cue",
	Long: `Generate source code from a cue: a Web Audio module (target js) or a C
header with the note table (target c). With --templates, the templates in the
given directory are used instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cue, err := loadCue(args)
		if err != nil {
			return err
		}
		var comp *compiler.Compiler
		if compileTmplDir != "" {
			comp, err = compiler.NewFromTemplates(compileTmplDir)
		} else {
			comp, err = compiler.New(compileTarget)
		}
		if err != nil {
			return fmt.Errorf("error creating compiler: %w", err)
		}
		files, err := comp.Cue(cue)
		if err != nil {
			return fmt.Errorf("could not compile cue %q: %w", cue.Name, err)
		}
		extensions := make([]string, 0, len(files))
		for ext := range files {
			extensions = append(extensions, ext)
		}
		sort.Strings(extensions)
		for _, ext := range extensions {
			if err := output(compileStdout, compileDir, cue.Name, ext, []byte(files[ext])); err != nil {
				return fmt.Errorf("error outputting %v file: %w", ext, err)
			}
		}
		return nil
	},
}

func init() {
	f := compileCmd.Flags()
	f.StringVarP(&compileTarget, "target", "t", "js", "Target: js or c")
	f.StringVar(&compileTmplDir, "templates", "", "Use the templates in this directory instead of the built-in ones")
	f.StringVarP(&compileDir, "output", "o", "", "Directory where to write the files; created if needed. Defaults to the working directory.")
	f.BoolVarP(&compileStdout, "stdout", "s", false, "Do not write files; write to standard output instead.")
	rootCmd.AddCommand(compileCmd)
}
