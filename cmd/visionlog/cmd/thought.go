package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relayvision/visionlog/internal/model"
	"github.com/relayvision/visionlog/internal/validation"
)

func thoughtID(t model.Thought) string { return t.ID }

func (c *cli) captureCmd() *cobra.Command {
	var (
		image, video, audio string
		goal, color         string
		quote, private      bool
	)
	cmd := &cobra.Command{
		Use:   "capture [TEXT...]",
		Short: "Capture a thought, optionally with media",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			hasMedia := image != "" || video != "" || audio != ""
			if err := validation.ValidateThought(text, hasMedia); err != nil {
				return err
			}
			if err := validation.ValidateColor(color); err != nil {
				return err
			}
			for kind, path := range map[string]string{model.FileTypeImage: image, model.FileTypeVideo: video, model.FileTypeAudio: audio} {
				if err := checkMedia(kind, path); err != nil {
					return err
				}
			}
			if err := c.load(cmd.Context()); err != nil {
				return err
			}

			in := model.ThoughtInput{Text: text, IsQuote: quote, IsPrivate: private}
			if color != "" {
				in.Color = &color
			}
			if goal != "" {
				g, err := resolve(c.store.Goals(), goalID, goal, "goal")
				if err != nil {
					return err
				}
				in.GoalID = &g.ID
			}

			var err error
			if in.ImageURL, err = c.upload(cmd.Context(), model.FileTypeImage, image); err != nil {
				return err
			}
			if in.VideoURL, err = c.upload(cmd.Context(), model.FileTypeVideo, video); err != nil {
				return err
			}
			if in.AudioURL, err = c.upload(cmd.Context(), model.FileTypeAudio, audio); err != nil {
				return err
			}

			t, res := c.store.CaptureThought(cmd.Context(), in)
			if err := outcome(res); err != nil {
				return err
			}
			c.palette().good.Fprintf(cmd.OutOrStdout(), "Captured %s\n", shortID(t.ID))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&image, "image", "", "Attach an image file")
	f.StringVar(&video, "video", "", "Attach a video file")
	f.StringVar(&audio, "audio", "", "Attach an audio file")
	f.StringVar(&goal, "goal", "", "Link to a goal (id prefix)")
	f.StringVar(&color, "color", "", "Color tag (#rrggbb or palette name)")
	f.BoolVar(&quote, "quote", false, "Mark the thought as a quote")
	f.BoolVar(&private, "private", false, "Hide the thought from your ally")
	return cmd
}

// checkMedia rejects an attachment that cannot be uploaded before anything is sent.
func checkMedia(kind, path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", kind, err)
	}
	return validation.ValidateMediaSize(kind, info.Size())
}

// upload sends one attachment and returns its public URL, or nil when path is empty.
func (c *cli) upload(ctx context.Context, kind, path string) (*string, error) {
	if path == "" {
		return nil, nil
	}
	media, err := c.api.UploadMedia(ctx, kind, path)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", kind, err)
	}
	return &media.URL, nil
}

func (c *cli) igniteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ignite ID",
		Short: "Toggle whether a thought has been acted on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.ownThought(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := outcome(c.store.ToggleIgnite(cmd.Context(), t.ID)); err != nil {
				return err
			}
			if t.Ignited {
				fmt.Fprintf(cmd.OutOrStdout(), "Extinguished %s\n", shortID(t.ID))
			} else {
				c.palette().accent.Fprintf(cmd.OutOrStdout(), "Ignited %s\n", shortID(t.ID))
			}
			return nil
		},
	}
}

func (c *cli) archiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Move a thought into or out of the vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.ownThought(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := outcome(c.store.ToggleArchive(cmd.Context(), t.ID)); err != nil {
				return err
			}
			if t.Archived {
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", shortID(t.ID))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Archived %s\n", shortID(t.ID))
			}
			return nil
		},
	}
}

func (c *cli) thoughtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thought",
		Short: "Manage captured thoughts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a thought",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.ownThought(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := outcome(c.store.DeleteThought(cmd.Context(), t.ID)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(t.ID))
			return nil
		},
	})
	return cmd
}

func (c *cli) ownThought(ctx context.Context, prefix string) (model.Thought, error) {
	if err := c.load(ctx); err != nil {
		return model.Thought{}, err
	}
	return resolve(c.store.Thoughts(), thoughtID, prefix, "thought")
}
