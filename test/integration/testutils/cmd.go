package testutils

import (
	"bytes"
	"context"
	"os"
	"os/exec"
)

// RunAppforge executes an appforge command with pre-split arguments.
func RunAppforge(ctx context.Context, env []string, binary string, args []string, nolog bool) (stdout, stderr []byte, err error) {
	var outData, errData bytes.Buffer
	cmd := StartAppforge(ctx, env, binary, args, nolog, &outData, &errData)
	err = cmd.Run()

	return outData.Bytes(), errData.Bytes(), err
}

// StartAppforge prepares an appforge command writing to the given outputs, the caller runs or starts it.
func StartAppforge(ctx context.Context, env []string, binary string, args []string, nolog bool, stdout, stderr *bytes.Buffer) *exec.Cmd {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	// Custom env goes last so it overrides the host one.
	newEnv := append([]string{}, os.Environ()...)
	newEnv = append(newEnv, env...)
	if nolog {
		newEnv = append(newEnv, "APPFORGE_NO_LOG=true")
	}
	cmd.Env = newEnv

	return cmd
}
