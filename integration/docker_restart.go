//go:build integration

package integration

import (
	"context"
	"os/exec"
	"testing"
)

func restartReviewsContainer(t *testing.T, ctx context.Context) {
	t.Helper()

	cmd := exec.CommandContext(ctx, "docker", "compose", "restart", "reviews")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("docker compose restart reviews failed: %v\n%s", err, string(out))
	}
}
