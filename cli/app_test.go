package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := NewApp(out, errOut).Run(append([]string{"closedchain"}, args...))
	return out.String(), errOut.String(), err
}

func TestResidualAtStart(t *testing.T) {
	out, errOut, err := runApp(t, "residual")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldBeEmpty)
	test.That(t, out, test.ShouldContainSubstring, "RESIDUAL")
	test.That(t, out, test.ShouldContainSubstring, "0.000000")
	test.That(t, out, test.ShouldContainSubstring, "true")
}

func TestResidualConfigurations(t *testing.T) {
	path := writeFile(t, "configurations.json", `[
		[0, -0.785, 0, -2.356, 0, 1.571, 0.785, 0, -0.785, 0, -2.356, 0, 1.571, 0.785],
		[0, -0.785, 0, -2.356, 0, 1.571, 0.785, 0.5, -0.785, 0, -2.356, 0, 1.571, 0.785]
	]`)
	out, _, err := runApp(t, "residual", path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "false")

	short := writeFile(t, "short.json", `[[0, 1, 2]]`)
	_, _, err = runApp(t, "residual", short)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "configuration 0")

	empty := writeFile(t, "empty.json", `[]`)
	_, _, err = runApp(t, "residual", empty)
	test.That(t, err, test.ShouldNotBeNil)

	_, _, err = runApp(t, "residual", filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidate(t *testing.T) {
	path := writeFile(t, "configurations.json", `[
		[0, -0.785, 0, -2.356, 0, 1.571, 0.785, 0, -0.785, 0, -2.356, 0, 1.571, 0.785],
		[0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0]
	]`)
	out, _, err := runApp(t, "validate", path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "2/2")

	cfg := writeFile(t, "config.json", `{
		"left": {"translation": {"x": 0, "y": 0, "z": 0}},
		"right": {"translation": {"x": 0, "y": 0, "z": 0}}
	}`)
	out, _, err = runApp(t, "--config", cfg, "validate")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "false")
	test.That(t, out, test.ShouldContainSubstring, "panda_right:link5")
	test.That(t, out, test.ShouldContainSubstring, "0/1")
}

func TestBounds(t *testing.T) {
	path := writeFile(t, "configurations.json", `[
		[7, -0.785, 0, -2.356, 0, 1.571, 0.785, 0, -0.785, 0, -2.356, 0, 1.571, 0.785]
	]`)
	out, _, err := runApp(t, "bounds", path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "panda_left_joint1")
	test.That(t, out, test.ShouldContainSubstring, "7.0000")
	test.That(t, out, test.ShouldNotContainSubstring, "panda_right_joint1")
}

func TestBench(t *testing.T) {
	out, _, err := runApp(t, "bench", "--workers", "2", "--samples", "20", "--seed", "3")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "jacobian")
	test.That(t, out, test.ShouldContainSubstring, "is valid")
	test.That(t, out, test.ShouldContainSubstring, "2 workers")
}

func TestDebugLogging(t *testing.T) {
	cfg := writeFile(t, "config.json", `{"constraint": {"tolerance": 0.01}}`)
	_, errOut, err := runApp(t, "--debug", "--config", cfg, "residual")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldContainSubstring, "config read")

	_, _, err = runApp(t, "--config", filepath.Join(t.TempDir(), "missing.json"), "residual")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConfigLogLevel(t *testing.T) {
	_, errOut, err := runApp(t, "bench", "--samples", "4", "--workers", "1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldBeEmpty)

	cfg := writeFile(t, "config.json", `{"log_level": "info"}`)
	_, errOut, err = runApp(t, "--config", cfg, "bench", "--samples", "4", "--workers", "1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldContainSubstring, "benchmark done")
	test.That(t, errOut, test.ShouldNotContainSubstring, "self collision validity created")

	bad := writeFile(t, "bad.json", `{"log_level": "loud"}`)
	_, _, err = runApp(t, "--config", bad, "residual")
	test.That(t, err, test.ShouldNotBeNil)
}
