package cli

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/stirgen/internal/engine"
	"github.com/roach88/stirgen/internal/profile"
	"github.com/roach88/stirgen/internal/stir"
)

// PromptOptions holds flags for the prompt command.
type PromptOptions struct {
	*RootOptions
	Save string
}

// NewPromptCommand creates the prompt command.
func NewPromptCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PromptOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Ask for parameters interactively, then generate",
		Long: `Ask for every stirring parameter on stdin, then generate the program.

All answers are collected before anything is written. A malformed number
aborts without creating the output file. --save also writes the answers
as a profile for later use with generate.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrompt(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Save, "save", "", "also save the answers as a profile file")

	return cmd
}

func runPrompt(opts *PromptOptions, cmd *cobra.Command) error {
	// Questions go to stderr so stdout stays clean for JSON output.
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	q := &questioner{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.ErrOrStderr()}

	p, err := q.ask()
	if err != nil {
		return formatter.Fail(err)
	}

	if opts.Save != "" {
		if err := saveProfile(opts.Save, p); err != nil {
			return formatter.Fail(err)
		}
		formatter.VerboseLog("Saved profile to %s", opts.Save)
	}

	res, err := engine.New().Generate(contextOf(cmd), p)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Format == "json" {
		return formatter.Success(res)
	}
	fmt.Fprintf(formatter.Writer, "✓ Wrote %s: %d loops (%s)\n", res.Output, res.LoopCount, res.Motion)
	return nil
}

type questioner struct {
	in  *bufio.Reader
	out io.Writer
	eof bool
}

// ask runs the question flow. Numbers are validated as they are read; range
// checks are left to the resolver.
func (q *questioner) ask() (*profile.Profile, error) {
	fmt.Fprintln(q.out, "Please enter the following inputs.")

	p := &profile.Profile{Name: "stir"}
	numbers := []struct {
		prompt string
		field  string
		dst    *float64
	}{
		{"Printer x length (mm): ", "length", &p.Volume.Length},
		{"Printer y length (mm): ", "width", &p.Volume.Width},
		{"Printer z length (mm): ", "height", &p.Volume.Height},
		{"Stirring diameter (mm): ", "stir_diameter", &p.Stir.Diameter},
		{"Stirring speed (mm/sec): ", "stir_speed", &p.Stir.Speed},
		{"Stirring duration (min): ", "stir_time", &p.Stir.Time},
		{"Stirring z position (mm): ", "stir_height", &p.Stir.Height},
		{"Final z position (mm): ", "z_final", &p.ZFinal},
	}
	for _, n := range numbers {
		v, err := q.number(n.prompt, n.field)
		if err != nil {
			return nil, err
		}
		*n.dst = v
	}

	motion, err := q.line("Motion, four-segment or arc [four-segment]: ")
	if err != nil {
		return nil, err
	}
	p.Motion = motion

	if p.HomeBeforeStart, err = q.yes("Home all axes first [y/n]?: "); err != nil {
		return nil, err
	}
	if p.Compatibility, err = q.yes("Disable M808? Older versions of Marlin will not support it [y/n]?: "); err != nil {
		return nil, err
	}

	cure, err := q.line("Amount of time to cure parts (min, leave blank to skip): ")
	if err != nil {
		return nil, err
	}
	if cure != "" {
		minutes, err := strconv.Atoi(cure)
		if err != nil {
			return nil, &stir.Error{Code: stir.CodeInvalidParameter, Field: "cure.minutes", Message: fmt.Sprintf("%q is not a whole number", cure)}
		}
		id, err := q.line("OctoPrint Enclosure PlugIn output ID for UV Lights: ")
		if err != nil {
			return nil, err
		}
		p.Cure = &stir.Cure{Minutes: minutes, Output: id}
	}

	if p.Output, err = q.line("Enter filename (be sure to end with .gcode): "); err != nil {
		return nil, err
	}
	if p.EndCode, err = q.line("Enter custom end code filename (leave blank to skip): "); err != nil {
		return nil, err
	}
	return p, nil
}

// line prints prompt and returns the trimmed answer. End of input answers
// every remaining question with "".
func (q *questioner) line(prompt string) (string, error) {
	fmt.Fprint(q.out, prompt)
	if q.eof {
		return "", nil
	}
	s, err := q.in.ReadString('\n')
	if err == io.EOF {
		q.eof = true
	} else if err != nil {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(s), nil
}

func (q *questioner) number(prompt, field string) (float64, error) {
	s, err := q.line(prompt)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &stir.Error{Code: stir.CodeInvalidParameter, Field: field, Message: fmt.Sprintf("%q is not a number", s)}
	}
	return v, nil
}

func (q *questioner) yes(prompt string) (bool, error) {
	s, err := q.line(prompt)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(s, "y") || strings.EqualFold(s, "yes"), nil
}

func saveProfile(path string, p *profile.Profile) error {
	f, err := os.Create(path)
	if err != nil {
		return stir.IOFailure("create profile "+path, err)
	}
	if err := profile.Encode(f, p); err != nil {
		f.Close()
		return stir.IOFailure("write profile "+path, err)
	}
	if err := f.Close(); err != nil {
		return stir.IOFailure("write profile "+path, err)
	}
	return nil
}
