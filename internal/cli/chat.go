package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/patchdash/internal/render"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Ask the scheduling assistant a question",
		Args:  cobra.MinimumNArgs(1),
		Run:   runChat,
	}

	cmd.Flags().IntP("width", "w", 80, "Wrap width")

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
	width, _ := cmd.Flags().GetInt("width")
	message := strings.Join(args, " ")

	a := openApp()
	defer a.Close()

	if err := a.chat.Open(); err != nil {
		exitErr("chat", err)
	}
	reply, ok, err := a.chat.Send(commandContext(cmd), message)
	if err != nil {
		exitErr("chat", err)
	}
	if !ok {
		exitErr("chat", fmt.Errorf("message is empty"))
	}

	if jsonOutput() {
		printJSON(a.chat.Messages())
		return
	}
	fmt.Println(render.Markdown(reply.Text, width))
}
