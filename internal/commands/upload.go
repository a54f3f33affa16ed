package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

// uploadFallback is shown when the server rejects an upload without a message.
const uploadFallback = "Failed to upload profile picture"

func init() {
	Register(&UploadCmd{})
}

// UploadCmd implements the upload command.
type UploadCmd struct{}

func (c *UploadCmd) Name() string       { return "upload" }
func (c *UploadCmd) Aliases() []string  { return nil }
func (c *UploadCmd) Synopsis() string   { return "Upload a profile picture" }
func (c *UploadCmd) Usage() string      { return "taskdash upload <image-file>" }
func (c *UploadCmd) NeedsBackend() bool { return true }
func (c *UploadCmd) NeedsAuth() bool    { return true }

func (c *UploadCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UploadCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: image file required")
		return exitcode.UserError
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}
	path := args[0]

	info, err := os.Stat(path)
	if err != nil {
		return userFailure(err, errOut)
	}
	if info.IsDir() {
		fmt.Fprintf(errOut, "error: not a file: %s\n", path)
		return exitcode.UserError
	}
	// The size is checked before reading so large files never load.
	if err := service.ValidatePictureSize(info.Size()); err != nil {
		return userFailure(err, errOut)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return userFailure(err, errOut)
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		fmt.Fprintf(errOut, "error: not an image: %s\n", path)
		return exitcode.UserError
	}

	result, err := svc.UploadProfilePicture(ctx, filepath.Base(path), data)
	if err != nil {
		return backendFailure(ctx, cfg, err, errOut)
	}
	if !result.OK() {
		msg := result.Message
		if strings.TrimSpace(msg) == "" {
			msg = uploadFallback
		}
		fmt.Fprintf(errOut, "error: %s\n", msg)
		return exitcode.BackendError
	}
	zerolog.Ctx(ctx).Debug().
		Str("file", filepath.Base(path)).
		Str("image_url", result.ImageURL).
		Msg("profile picture uploaded")

	if !cfg.Quiet {
		if result.Message != "" {
			fmt.Fprintln(out, result.Message)
		} else {
			fmt.Fprintln(out, "ok")
		}
		if result.ImageURL != "" {
			fmt.Fprintf(out, "image: %s\n", result.ImageURL)
		}
	}
	return exitcode.Success
}
