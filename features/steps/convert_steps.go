//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	appconv "aac2alac/application/conversion"
	"aac2alac/cmd"
	"aac2alac/domain/conversion"
	"aac2alac/infrastructure/ffmpeg"
	"aac2alac/infrastructure/filesystem"

	"github.com/cucumber/godog"
)

// fakeTools stands in for ffmpeg and ffprobe. Probes answer from the
// registered codecs and encodes write a placeholder output file.
type fakeTools struct {
	codecs    map[string]string // source path -> audio codec, "" for no audio
	missing   bool
	encodeErr string // stderr written before a failed encode
	calls     [][]string
}

func (f *fakeTools) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if f.missing {
		return nil, &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	path := args[len(args)-1]
	codec, ok := f.codecs[path]
	if !ok {
		return nil, errors.New("exit status 1")
	}

	streams := []string{`{"index": 0, "codec_name": "h264", "codec_type": "video"}`}
	if codec != "" {
		streams = append(streams, fmt.Sprintf(`{"index": 1, "codec_name": %q, "codec_type": "audio"}`, codec))
	}
	return []byte(fmt.Sprintf(`{"streams": [%s], "format": {"filename": %q, "format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "10.000000"}}`,
		strings.Join(streams, ","), path)), nil
}

func (f *fakeTools) Run(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	if f.missing {
		return &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	f.calls = append(f.calls, args)
	output := args[len(args)-1]

	if f.encodeErr != "" {
		// A partial file is written before ffmpeg gives up
		_ = os.WriteFile(output, []byte("partial"), 0o644)
		_, _ = io.WriteString(stderr, f.encodeErr+"\n")
		return errors.New("exit status 1")
	}

	if stdout != nil {
		for _, us := range []int{2500000, 5000000, 10000000} {
			fmt.Fprintf(stdout, "out_time_us=%d\nprogress=continue\n", us)
		}
		fmt.Fprint(stdout, "progress=end\n")
	}
	return os.WriteFile(output, []byte("alac"), 0o644)
}

// convertContext holds test state for convert and batch scenarios
type convertContext struct {
	dir      string
	tools    *fakeTools
	opts     appconv.Options
	progress bool
	output   *bytes.Buffer
	err      error
}

// SharedConvertContext is reset before each scenario via Before hook
var SharedConvertContext *convertContext

func getConvertContext() *convertContext {
	return SharedConvertContext
}

func InitializeConvertScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "convert-test-*")
		if err != nil {
			return c, err
		}
		SharedConvertContext = &convertContext{
			dir:   dir,
			tools: &fakeTools{codecs: make(map[string]string)},
			opts: appconv.Options{
				Suffix:     conversion.DefaultSuffix,
				Streams:    conversion.StreamsKeep,
				RequireAAC: true,
				Overwrite:  true,
			},
			output: &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedConvertContext != nil && SharedConvertContext.dir != "" {
			os.RemoveAll(SharedConvertContext.dir)
		}
		SharedConvertContext = nil
		return c, nil
	})

	ctx.Step(`^a media file "([^"]*)" with "([^"]*)" audio$`, aMediaFileWithAudio)
	ctx.Step(`^a media file "([^"]*)" without audio$`, aMediaFileWithoutAudio)
	ctx.Step(`^a file "([^"]*)" that is not media$`, aFileThatIsNotMedia)
	ctx.Step(`^the output suffix is "([^"]*)"$`, theOutputSuffixIs)
	ctx.Step(`^non-audio streams are "([^"]*)"$`, nonAudioStreamsAre)
	ctx.Step(`^the output directory is "([^"]*)"$`, theOutputDirectoryIs)
	ctx.Step(`^existing outputs are kept$`, existingOutputsAreKept)
	ctx.Step(`^any audio codec is accepted$`, anyAudioCodecIsAccepted)
	ctx.Step(`^progress reporting is enabled$`, progressReportingIsEnabled)
	ctx.Step(`^ffmpeg is not installed$`, ffmpegIsNotInstalled)
	ctx.Step(`^ffmpeg fails with "([^"]*)"$`, ffmpegFailsWith)
	ctx.Step(`^I convert "([^"]*)"$`, iConvert)
	ctx.Step(`^I convert "([^"]*)" to "([^"]*)"$`, iConvertTo)
	ctx.Step(`^I convert the files:$`, iConvertTheFiles)
	ctx.Step(`^the conversion should succeed$`, theConversionShouldSucceed)
	ctx.Step(`^the exit status should be (\d+)$`, theExitStatusShouldBe)
	ctx.Step(`^the error should mention "([^"]*)"$`, theErrorShouldMention)
	ctx.Step(`^the output should contain "([^"]*)"$`, theOutputShouldContain)
	ctx.Step(`^the output should be:$`, theOutputShouldBe)
	ctx.Step(`^the file "([^"]*)" should exist$`, theFileShouldExist)
	ctx.Step(`^the directory should contain only:$`, theDirectoryShouldContainOnly)
	ctx.Step(`^ffmpeg should have been called with arguments:$`, ffmpegShouldHaveBeenCalledWithArguments)
	ctx.Step(`^ffmpeg should not have been called$`, ffmpegShouldNotHaveBeenCalled)
}

func (c *convertContext) path(name string) string {
	return filepath.Join(c.dir, filepath.FromSlash(name))
}

func (c *convertContext) placeholders() *strings.Replacer {
	return strings.NewReplacer("{dir}", c.dir)
}

func addSource(name, codec string) error {
	c := getConvertContext()
	path := c.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte("source"), 0o644); err != nil {
		return err
	}
	c.tools.codecs[path] = codec
	return nil
}

func aMediaFileWithAudio(name, codec string) error {
	return addSource(name, codec)
}

func aMediaFileWithoutAudio(name string) error {
	return addSource(name, "")
}

func aFileThatIsNotMedia(name string) error {
	c := getConvertContext()
	return os.WriteFile(c.path(name), []byte("not media"), 0o644)
}

func theOutputSuffixIs(suffix string) error {
	getConvertContext().opts.Suffix = suffix
	return nil
}

func nonAudioStreamsAre(policy string) error {
	parsed, err := conversion.ParseStreamPolicy(policy)
	if err != nil {
		return err
	}
	getConvertContext().opts.Streams = parsed
	return nil
}

func theOutputDirectoryIs(dir string) error {
	c := getConvertContext()
	c.opts.OutputDir = c.path(dir)
	return nil
}

func existingOutputsAreKept() error {
	getConvertContext().opts.Overwrite = false
	return nil
}

func anyAudioCodecIsAccepted() error {
	getConvertContext().opts.RequireAAC = false
	return nil
}

func progressReportingIsEnabled() error {
	getConvertContext().progress = true
	return nil
}

func ffmpegIsNotInstalled() error {
	getConvertContext().tools.missing = true
	return nil
}

func ffmpegFailsWith(stderr string) error {
	getConvertContext().tools.encodeErr = stderr
	return nil
}

func (c *convertContext) dependencies() (*ffmpeg.Converter, *ffmpeg.Prober, *filesystem.Checker) {
	converter := ffmpeg.NewConverter(ffmpeg.WithCommandRunner(c.tools))
	prober := ffmpeg.NewProber(ffmpeg.WithProberCommandRunner(c.tools))
	return converter, prober, filesystem.NewChecker()
}

func iConvert(name string) error {
	return iConvertTo(name, "")
}

func iConvertTo(name, output string) error {
	c := getConvertContext()
	if output != "" {
		output = c.path(output)
	}
	converter, prober, files := c.dependencies()
	c.err = cmd.RunConvertWithDependencies(
		context.Background(),
		converter,
		prober,
		files,
		c.opts,
		nil,
		c.path(name),
		output,
		c.progress,
		c.output,
	)
	return nil
}

func iConvertTheFiles(table *godog.Table) error {
	c := getConvertContext()
	var sources []string
	for _, row := range table.Rows {
		sources = append(sources, c.path(row.Cells[0].Value))
	}
	converter, prober, files := c.dependencies()
	c.err = cmd.RunBatchWithDependencies(
		context.Background(),
		converter,
		prober,
		files,
		c.opts,
		nil,
		sources,
		c.progress,
		c.output,
	)
	return nil
}

func theConversionShouldSucceed() error {
	c := getConvertContext()
	if c.err != nil {
		return fmt.Errorf("expected success, got: %v", c.err)
	}
	return nil
}

func theExitStatusShouldBe(code string) error {
	c := getConvertContext()
	want, _ := strconv.Atoi(code)
	if got := cmd.ExitCode(c.err); got != want {
		return fmt.Errorf("expected exit status %d, got %d (err: %v)", want, got, c.err)
	}
	return nil
}

func theErrorShouldMention(text string) error {
	c := getConvertContext()
	if c.err == nil {
		return fmt.Errorf("expected an error mentioning %q, got none", text)
	}
	if !strings.Contains(c.err.Error(), text) {
		return fmt.Errorf("expected error to mention %q, got: %v", text, c.err)
	}
	return nil
}

func theOutputShouldContain(text string) error {
	c := getConvertContext()
	text = c.placeholders().Replace(text)
	if !strings.Contains(c.output.String(), text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, c.output.String())
	}
	return nil
}

func theOutputShouldBe(doc *godog.DocString) error {
	c := getConvertContext()
	want := c.placeholders().Replace(strings.TrimSpace(doc.Content))
	if got := strings.TrimSpace(c.output.String()); got != want {
		return fmt.Errorf("expected output:\n%s\ngot:\n%s", want, got)
	}
	return nil
}

func theFileShouldExist(name string) error {
	c := getConvertContext()
	if _, err := os.Stat(c.path(name)); err != nil {
		return fmt.Errorf("expected %s to exist: %v", name, err)
	}
	return nil
}

func theDirectoryShouldContainOnly(table *godog.Table) error {
	c := getConvertContext()
	var want []string
	for _, row := range table.Rows {
		want = append(want, row.Cells[0].Value)
	}
	sort.Strings(want)

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Name())
	}
	sort.Strings(got)

	if strings.Join(got, ",") != strings.Join(want, ",") {
		return fmt.Errorf("expected directory to contain %v, got %v", want, got)
	}
	return nil
}

func ffmpegShouldHaveBeenCalledWithArguments(table *godog.Table) error {
	c := getConvertContext()
	if len(c.tools.calls) == 0 {
		return fmt.Errorf("ffmpeg was not called")
	}
	got := c.tools.calls[0]

	var want []string
	for _, row := range table.Rows {
		want = append(want, c.placeholders().Replace(row.Cells[0].Value))
	}
	if len(got) != len(want) {
		return fmt.Errorf("expected %d arguments, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		// The output is a hidden temporary sibling of the final file
		if want[i] == "<temporary output>" {
			if !strings.HasPrefix(filepath.Base(got[i]), ".") || !strings.Contains(got[i], ".partial") {
				return fmt.Errorf("argument %d: expected a temporary output path, got %q", i, got[i])
			}
			continue
		}
		if got[i] != want[i] {
			return fmt.Errorf("argument %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	return nil
}

func ffmpegShouldNotHaveBeenCalled() error {
	c := getConvertContext()
	if len(c.tools.calls) != 0 {
		return fmt.Errorf("expected no ffmpeg calls, got %v", c.tools.calls)
	}
	return nil
}
