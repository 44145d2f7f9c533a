// ABOUTME: Send command for dispatching push notifications.
// ABOUTME: Sends messages via the Pushover Message API with logging.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mlgill/pushover-mcp-server/internal/db"
	"github.com/mlgill/pushover-mcp-server/internal/pushover"
	"github.com/spf13/cobra"
)

func newSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Send a Pushover notification",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSend,
	}

	cmd.Flags().StringP("title", "t", "", "notification title")
	cmd.Flags().IntP("priority", "p", 0, "priority (-2 to 2)")
	cmd.Flags().StringP("sound", "s", "", "notification sound")
	cmd.Flags().StringP("device", "d", "", "target device name")
	cmd.Flags().StringP("url", "u", "", "supplementary URL")
	cmd.Flags().String("url-title", "", "supplementary URL title")
	cmd.Flags().Bool("html", false, "enable HTML formatting")
	cmd.Flags().Int("ttl", 0, "time to live in seconds")

	return cmd
}

func runSend(cmd *cobra.Command, args []string) error {
	creds, err := requireCredentials()
	if err != nil {
		return err
	}

	message := strings.TrimSpace(strings.Join(args, " "))
	if message == "" {
		return fmt.Errorf("message cannot be empty")
	}

	priority, _ := cmd.Flags().GetInt("priority")
	if !pushover.ValidPriority(priority) {
		return fmt.Errorf("priority must be between -2 and 2")
	}

	title, _ := cmd.Flags().GetString("title")
	sound, _ := cmd.Flags().GetString("sound")
	device, _ := cmd.Flags().GetString("device")
	urlVal, _ := cmd.Flags().GetString("url")
	urlTitle, _ := cmd.Flags().GetString("url-title")
	html, _ := cmd.Flags().GetBool("html")
	ttl, _ := cmd.Flags().GetInt("ttl")

	if sound != "" && !pushover.ValidSound(sound) {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: unknown sound %q will be ignored\n", sound)
	}

	params := pushover.SendOptions{
		Message:  message,
		Title:    title,
		Priority: priority,
		Sound:    sound,
		Device:   device,
		URL:      urlVal,
		URLTitle: urlTitle,
		HTML:     html,
	}
	if ttl > 0 {
		params.TTL = &ttl
	}

	client := newClient(creds)
	defer client.Close()

	ctx := cmd.Context()
	resp, err := client.SendMessage(ctx, params)
	if err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("pushover rejected the notification: %s", strings.Join(resp.Errors, "; "))
	}

	if err := logSentMessage(ctx, message, title, device, priority, resp.RequestID); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: unable to log sent message: %v\n", err)
	}

	cmd.Printf("✓ Notification sent. Request ID: %s\n", resp.RequestID)
	return nil
}

func logSentMessage(ctx context.Context, message, title, device string, priority int, requestID string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	rec := db.SentRecord{
		Message:   message,
		Title:     title,
		Device:    device,
		Priority:  priority,
		RequestID: requestID,
		SentAt:    time.Now(),
	}
	return store.LogSent(ctx, rec)
}
