// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package staff

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"

	"github.com/supportdesk/supportdesk/cmd/supportctl/cli"
)

type documentParams struct {
	cli.ConsoleFlags
	Output string `flag:"output,o" desc:"file to write (- for stdout; default staff-<id> with an extension from the content type)"`
}

func documentCommand() *cli.Command {
	var params documentParams
	const usage = "supportctl staff id-document <staff-id> [-o FILE]"

	return &cli.Command{
		Name:    "id-document",
		Summary: "Download an account's identity document",
		Usage:   usage,
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			id, err := staffIDArg(args, usage)
			if err != nil {
				return err
			}
			session, release, err := adminSession(ctx, &params.ConsoleFlags, logger)
			if err != nil {
				return err
			}
			defer release()

			document, err := session.IDDocument(ctx, id)
			if err != nil {
				return err
			}

			if params.Output == "-" {
				_, err := cli.Stdout.Write(document.Data)
				return err
			}
			path := params.Output
			if path == "" {
				path = fmt.Sprintf("staff-%d%s", id, extensionFor(document.ContentType))
			}
			if err := os.WriteFile(path, document.Data, 0o600); err != nil {
				return fmt.Errorf("writing identity document: %w", err)
			}
			fmt.Fprintf(cli.Stdout, "Saved %s (%s, %d bytes)\n", path, document.ContentType, len(document.Data))
			return nil
		},
	}
}

// extensionFor picks a file extension for a content type. Common image
// types map to their usual extension; unknown types get none.
func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "application/pdf":
		return ".pdf"
	}
	if extensions, err := mime.ExtensionsByType(mediaType); err == nil && len(extensions) > 0 {
		return extensions[0]
	}
	return ""
}
