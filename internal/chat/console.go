package chat

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Console drives moderation from the operator's terminal. It mutates
// shared state only through the Registry and Moderation APIs, so client
// sessions observe admin actions exactly as they observe each other.
type Console struct {
	srv    *Server
	in     *bufio.Scanner
	out    io.Writer
	inChat bool
}

func NewConsole(srv *Server, in io.Reader, out io.Writer) *Console {
	return &Console{srv: srv, in: bufio.NewScanner(in), out: out}
}

// Run processes operator commands until /q or EOF. It returns when the
// operator asks for shutdown; calling Server.Stop is the caller's job.
func (c *Console) Run() {
	c.printHelp()
	for {
		if c.inChat {
			fmt.Fprint(c.out, "chat> ")
		} else {
			fmt.Fprint(c.out, "server> ")
		}
		if !c.in.Scan() {
			return
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		if c.inChat {
			c.chatLine(line)
			continue
		}
		if c.command(line) {
			return
		}
	}
}

// command dispatches one console line. It reports true on /q.
func (c *Console) command(line string) bool {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/q", "/quit":
		fmt.Fprintln(c.out, "Shutting down server...")
		return true
	case "/h", "/help":
		c.printHelp()
	case "/chat":
		c.enterChat()
	case "/list":
		c.listDetailed()
	case "/users":
		c.listUsers()
	case "/kick":
		c.kick(args)
	case "/revive":
		c.revive(args)
	case "/suspend":
		c.suspend(args)
	case "/!suspend":
		c.unsuspend(args)
	default:
		fmt.Fprintln(c.out, "Unknown command. Type /help for available commands.")
	}
	return false
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, `Server commands:
  /chat            - Enter chat observe mode
  /users           - Show connected users
  /list            - List connected clients (detailed)
  /kick <user>     - Disconnect a user and bar the name
  /kick -ls        - List kicked users
  /revive <user>   - Allow a kicked user to reconnect
  /suspend <user>  - Suspend a user from sending messages
  /suspend -ls     - List suspended users
  /!suspend <user> - Unsuspend a user
  /help            - Show this help
  /q               - Shutdown server
`)
}

func (c *Console) listDetailed() {
	sessions := c.srv.registry.Snapshot()
	if len(sessions) == 0 {
		fmt.Fprintln(c.out, "No users connected.")
		return
	}
	fmt.Fprintln(c.out, "Connected clients:")
	for i, s := range sessions {
		status := "ACTIVE"
		if c.srv.moderation.IsSuspended(s.Name) {
			status = "SUSPENDED"
		}
		fmt.Fprintf(c.out, "  %d. %s (%s) - %s\n", i+1, s.Name, s.Addr, status)
	}
}

func (c *Console) listUsers() {
	sessions := c.srv.registry.Snapshot()
	if len(sessions) == 0 {
		fmt.Fprintln(c.out, "No users connected.")
		return
	}
	fmt.Fprintln(c.out, "Connected users:")
	for i, s := range sessions {
		suffix := ""
		if c.srv.moderation.IsSuspended(s.Name) {
			suffix = " (suspended)"
		}
		fmt.Fprintf(c.out, "  %d. %s%s\n", i+1, s.Name, suffix)
	}
}

func (c *Console) kick(args []string) {
	if len(args) == 1 && args[0] == "-ls" {
		kicked := c.srv.moderation.Kicked()
		if len(kicked) == 0 {
			fmt.Fprintln(c.out, "No users have been kicked.")
			return
		}
		fmt.Fprintln(c.out, "Kicked users (use /revive <user> to allow reconnection):")
		for i, k := range kicked {
			fmt.Fprintf(c.out, "  %d. %s - %s\n", i+1, k.Name, k.Addr)
		}
		return
	}
	target := strings.Join(args, " ")
	if target == "" {
		fmt.Fprintln(c.out, "Usage: /kick <username> | /kick -ls")
		return
	}
	sess, ok := c.srv.registry.Lookup(target)
	if !ok {
		fmt.Fprintf(c.out, "User %q not found or already kicked\n", target)
		return
	}
	// Record the kick before closing so the handler's teardown sees it
	// and skips the leave broadcast.
	c.srv.moderation.Kick(sess.Name, sess.Addr)
	sess.WriteLine("You have been kicked by the server admin.")
	c.srv.registry.Unregister(sess.ID)
	sess.Conn.Close()
	fmt.Fprintf(c.out, "Kicked user: %s\n", sess.Name)
}

func (c *Console) revive(args []string) {
	target := strings.Join(args, " ")
	if target == "" {
		fmt.Fprintln(c.out, "Usage: /revive <username>")
		return
	}
	if !c.srv.moderation.Revive(target) {
		fmt.Fprintf(c.out, "User %q was not found in the kicked users list\n", target)
		return
	}
	fmt.Fprintf(c.out, "User %q can now reconnect\n", target)
	if sess, ok := c.srv.registry.Lookup(target); ok {
		sess.WriteLine("You have been revived by the server admin. You can now send messages.")
	}
}

func (c *Console) suspend(args []string) {
	if len(args) == 1 && args[0] == "-ls" {
		suspended := c.srv.moderation.Suspended()
		if len(suspended) == 0 {
			fmt.Fprintln(c.out, "No users are currently suspended.")
			return
		}
		fmt.Fprintln(c.out, "Suspended users (use /!suspend <user> to unsuspend):")
		for i, name := range suspended {
			fmt.Fprintf(c.out, "  %d. %s\n", i+1, name)
		}
		return
	}
	target := strings.Join(args, " ")
	if target == "" {
		fmt.Fprintln(c.out, "Usage: /suspend <username> | /suspend -ls")
		return
	}
	sess, ok := c.srv.registry.Lookup(target)
	if !ok {
		fmt.Fprintf(c.out, "User %q not found\n", target)
		return
	}
	if !c.srv.moderation.Suspend(sess.Name) {
		fmt.Fprintf(c.out, "User %q is already suspended. Use /!suspend to unsuspend.\n", sess.Name)
		return
	}
	sess.WriteLine("You have been suspended by the server admin and cannot send messages.")
	fmt.Fprintf(c.out, "Suspended user: %s\n", sess.Name)
}

func (c *Console) unsuspend(args []string) {
	target := strings.Join(args, " ")
	if target == "" {
		fmt.Fprintln(c.out, "Usage: /!suspend <username>")
		return
	}
	// Suspension survives a disconnect, so resolve the canonical name
	// through the registry when possible but accept offline names too.
	name := target
	sess, online := c.srv.registry.Lookup(target)
	if online {
		name = sess.Name
	}
	if !c.srv.moderation.Unsuspend(name) {
		fmt.Fprintf(c.out, "User %q is not currently suspended\n", name)
		return
	}
	if online {
		sess.WriteLine("You have been unsuspended by the server admin.")
	}
	fmt.Fprintf(c.out, "Removed suspension for user: %s\n", name)
}

func (c *Console) enterChat() {
	fmt.Fprintln(c.out, "Entering chat mode. Type /back to return to the server console.")
	records := c.srv.history.Tail(10)
	if len(records) == 0 {
		fmt.Fprintln(c.out, "No recent messages.")
	} else {
		fmt.Fprintln(c.out, "Chat history (last 10 messages):")
		for _, rec := range records {
			if rec.Kind == RecordSystem {
				fmt.Fprintf(c.out, "[%s] SYSTEM: %s\n", rec.Time, rec.Content)
			} else {
				fmt.Fprintf(c.out, "[%s] %s\n", rec.Time, rec.Content)
			}
		}
	}
	c.inChat = true
}

// chatLine handles input while observing the chat. The mode is read-only:
// anything but /back is refused with a hint.
func (c *Console) chatLine(line string) {
	if strings.EqualFold(line, "/back") {
		fmt.Fprintln(c.out, "Exiting chat mode.")
		c.inChat = false
		return
	}
	fmt.Fprintln(c.out, "Commands are not supported in chat mode. Type /back to return to the server console.")
}
