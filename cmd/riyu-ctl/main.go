package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	cli "github.com/spf13/pflag"

	"riyu/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	ping := cli.Bool("ping", false, "Check that the daemon is running")
	timeout := cli.DurationP("timeout", "t", 30*time.Second, "Reply timeout")
	cli.Parse()

	msg := ipc.ControlMessage{Cmd: ipc.CmdExecute, Text: strings.Join(cli.Args(), " ")}
	if *ping {
		msg = ipc.ControlMessage{Cmd: ipc.CmdPing}
	}

	reply, err := ipc.SendCommand(*socket, msg, *timeout)
	if err != nil {
		fmt.Println("riyu daemon not running:", err)
		os.Exit(1)
	}

	if reply.Error != "" {
		fmt.Printf("%s: %s\n", reply.Status, reply.Error)
		os.Exit(1)
	}
	if reply.Phrase != "" {
		fmt.Println(reply.Phrase)
		return
	}
	fmt.Println(reply.Status)
}
