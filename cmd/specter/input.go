package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/specter-dev/specter/internal/daemon"
)

var inputCmd = &cobra.Command{
	Use:   "input",
	Short: "Send simulated input through the daemon",
}

var inputMoveCmd = &cobra.Command{
	Use:   "move [x] [y]",
	Short: "Move the mouse to absolute coordinates",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid x: %q", args[0])
		}
		y, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid y: %q", args[1])
		}
		_, err = sendOK(daemon.Request{Type: "move_mouse", X: x, Y: y})
		return err
	},
}

var inputClickCmd = &cobra.Command{
	Use:   "click [button]",
	Short: "Click a mouse button (left, right, middle)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		button := "left"
		if len(args) == 1 {
			button = args[0]
		}
		_, err := sendOK(daemon.Request{Type: "click_mouse", Button: button})
		return err
	},
}

var inputScrollCmd = &cobra.Command{
	Use:   "scroll [amount] [axis]",
	Short: "Scroll by amount along an axis (up, down, left, right)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid amount: %q", args[0])
		}
		axis := "down"
		if len(args) == 2 {
			axis = args[1]
		}
		_, err = sendOK(daemon.Request{Type: "scroll", Amount: amount, Axis: axis})
		return err
	},
}

var inputTypeCmd = &cobra.Command{
	Use:   "type [text]",
	Short: "Type literal text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := sendOK(daemon.Request{Type: "type_text", Text: args[0]})
		return err
	},
}

var inputKeyCmd = &cobra.Command{
	Use:   "key [key]",
	Short: "Press and release a named key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := sendOK(daemon.Request{Type: "press_key", Key: args[0]})
		return err
	},
}

var inputPosCmd = &cobra.Command{
	Use:   "pos",
	Short: "Print the current mouse position",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := sendOK(daemon.Request{Type: "get_mouse_position"})
		if err != nil {
			return err
		}
		if resp.X == nil || resp.Y == nil {
			return fmt.Errorf("daemon returned no position")
		}
		fmt.Printf("%d %d\n", *resp.X, *resp.Y)
		return nil
	},
}

func init() {
	inputCmd.AddCommand(inputMoveCmd, inputClickCmd, inputScrollCmd, inputTypeCmd, inputKeyCmd, inputPosCmd)
}
