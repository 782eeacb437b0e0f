package main

import (
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/port"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"
)

// errUsage is returned for a malformed command line
var errUsage = errors.New("invalid usage")

type cli struct {
	attachments port.AttachmentService
	usage       port.UsageService
	cleanup     port.CleanupService
	out         io.Writer
	errOut      io.Writer
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "upload":
		return c.upload(ctx, rest)
	case "avatar":
		return c.avatar(ctx, rest)
	case "resolve":
		return c.resolve(ctx, rest)
	case "usage":
		return c.showUsage(ctx, rest)
	case "sweep":
		return c.sweep(ctx, rest)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func (c *cli) upload(ctx context.Context, args []string) error {
	var owner, conversation, message string
	fs := c.flags("upload")
	fs.StringVar(&owner, "owner", "", "Owner user ID")
	fs.StringVar(&conversation, "conversation", "", "Conversation ID")
	fs.StringVar(&message, "message", "", "Message ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if conversation == "" || message == "" {
		return fmt.Errorf("%w: -conversation and -message are required", errUsage)
	}

	files := make([]domain.FileSource, 0, fs.NArg())
	for _, path := range fs.Args() {
		files = append(files, domain.FileSource{LocalPath: path})
	}

	result := c.attachments.Pick(ctx, port.UploadBatchRequest{
		OwnerID:        owner,
		ConversationID: conversation,
		MessageID:      message,
		Files:          files,
	}, func(completed, total int) {
		fmt.Fprintf(c.errOut, "uploaded %d/%d\n", completed, total)
	})

	if err := c.print(result); err != nil {
		return err
	}
	if result.Status == domain.AttachmentResultFailure {
		return errors.New(result.Message)
	}
	return nil
}

func (c *cli) avatar(ctx context.Context, args []string) error {
	var owner string
	fs := c.flags("avatar")
	fs.StringVar(&owner, "owner", "", "Owner user ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: avatar takes exactly one file", errUsage)
	}

	att, err := c.attachments.UploadAvatar(ctx, owner, domain.FileSource{LocalPath: fs.Arg(0)}, func(progress float64) {
		fmt.Fprintf(c.errOut, "\r%3.0f%%", progress*100)
	})
	fmt.Fprintln(c.errOut)
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	return c.print(att)
}

func (c *cli) resolve(ctx context.Context, args []string) error {
	var bucket, key string
	fs := c.flags("resolve")
	fs.StringVar(&bucket, "bucket", "", "Bucket name")
	fs.StringVar(&key, "key", "", "Object key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if bucket == "" || key == "" {
		return fmt.Errorf("%w: -bucket and -key are required", errUsage)
	}

	access := c.attachments.ResolveURL(ctx, domain.FileAttachment{BucketID: bucket, StoragePath: key})
	if err := c.print(access); err != nil {
		return err
	}
	if !access.Resolved() {
		return errors.New("url could not be resolved")
	}
	return nil
}

func (c *cli) showUsage(ctx context.Context, args []string) error {
	var owner string
	fs := c.flags("usage")
	fs.StringVar(&owner, "owner", "", "Owner user ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	u := c.usage.Usage(ctx, owner)
	if err := c.print(u); err != nil {
		return err
	}
	if u.Error != "" {
		return errors.New(u.Error)
	}
	return nil
}

func (c *cli) sweep(ctx context.Context, args []string) error {
	var maxAge time.Duration
	fs := c.flags("sweep")
	fs.DurationVar(&maxAge, "max-age", 24*time.Hour, "Remove temp files older than this")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return c.print(c.cleanup.Sweep(ctx, maxAge))
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
