package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"fasterpin/host/config"
	"fasterpin/host/mcu"
)

var (
	configPath = flag.String("config", "", "JSON config file with device and named pins")
	device     = flag.String("device", "", "Serial device path (overrides config)")
	baud       = flag.Int("baud", 0, "Baud rate (overrides config)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	conn := mcu.NewMCU()
	if *verbose {
		conn.SetLogOutput(os.Stdout)
	}

	fmt.Printf("Connecting to MCU on %s...\n", cfg.Device)
	if err := conn.ConnectWithConfig(cfg.Serial()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := conn.RetrieveDictionary(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to retrieve dictionary: %v\n", err)
		os.Exit(1)
	}
	dict := conn.GetDictionary()
	fmt.Printf("Connected: %s (%s, %s pins)\n", dict.Version, dict.Config["MCU"], dict.Config["PIN_COUNT"])

	sh := newShell(conn, cfg)
	if err := sh.setupNamedPins(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" || fields[0] == "q" {
			return
		}
		if err := sh.run(fields[0], fields[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.HostConfig, error) {
	var cfg *config.HostConfig
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.LoadConfig([]byte(`{}`))
	}
	if err != nil {
		return nil, err
	}

	if *device != "" {
		cfg.Device = *device
	}
	if *baud != 0 {
		cfg.Baud = *baud
	}
	return cfg, nil
}

// pinClient is the part of mcu.MCU the shell drives
type pinClient interface {
	BindPin(oid uint8, pin int) error
	BindPinID(oid uint8, id uint16) error
	SetMode(oid uint8, output bool) error
	Write(oid uint8, value bool) error
	Toggle(oid uint8) error
	Query(oid uint8) (mcu.PinState, error)
	SetPin(pin int, value bool) error
	GetPin(pin int) (bool, error)
	Reset() error
}

type shell struct {
	conn pinClient
	cfg  *config.HostConfig
	oids map[string]uint8 // configured pin name -> oid
	out  *bufio.Writer
}

func newShell(conn pinClient, cfg *config.HostConfig) *shell {
	return &shell{
		conn: conn,
		cfg:  cfg,
		oids: make(map[string]uint8),
		out:  bufio.NewWriter(os.Stdout),
	}
}

// setupNamedPins binds every configured pin to an oid in name order
func (s *shell) setupNamedPins() error {
	for i, name := range s.cfg.PinNames() {
		if i > 0xff {
			return fmt.Errorf("too many named pins")
		}
		oid := uint8(i)
		p := s.cfg.Pins[name]
		if err := s.conn.BindPin(oid, p.Pin); err != nil {
			return fmt.Errorf("bind %s: %w", name, err)
		}
		if p.Output {
			if err := s.conn.Write(oid, p.Initial); err != nil {
				return fmt.Errorf("init %s: %w", name, err)
			}
			if err := s.conn.SetMode(oid, true); err != nil {
				return fmt.Errorf("init %s: %w", name, err)
			}
		}
		s.oids[name] = oid
	}
	return nil
}

// oid accepts a configured pin name or a number
func (s *shell) oid(arg string) (uint8, error) {
	if oid, ok := s.oids[arg]; ok {
		return oid, nil
	}
	n, err := strconv.ParseUint(arg, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown pin or oid %q", arg)
	}
	return uint8(n), nil
}

func (s *shell) run(cmd string, args []string) error {
	defer s.out.Flush()

	want := map[string]int{
		"bind": 2, "bindid": 2, "output": 1, "input": 1, "high": 1, "low": 1,
		"toggle": 1, "read": 1, "set": 2, "get": 1,
	}
	if n, ok := want[cmd]; ok && len(args) != n {
		return fmt.Errorf("%s takes %d argument(s)", cmd, n)
	}

	switch cmd {
	case "help", "?":
		s.printHelp()
		return nil
	case "pins":
		for _, name := range s.cfg.PinNames() {
			fmt.Fprintf(s.out, "  %-12s oid=%d pin=%d\n", name, s.oids[name], s.cfg.Pins[name].Pin)
		}
		return nil
	case "reset":
		return s.conn.Reset()
	case "bind":
		oid, err := s.oid(args[0])
		if err != nil {
			return err
		}
		pin, err := s.cfg.Resolve(args[1])
		if err != nil {
			return err
		}
		return s.conn.BindPin(oid, pin)
	case "bindid":
		oid, err := s.oid(args[0])
		if err != nil {
			return err
		}
		id, err := strconv.ParseUint(args[1], 0, 16)
		if err != nil {
			return fmt.Errorf("bad pin identifier %q", args[1])
		}
		return s.conn.BindPinID(oid, uint16(id))
	case "set":
		pin, err := s.cfg.Resolve(args[0])
		if err != nil {
			return err
		}
		return s.conn.SetPin(pin, args[1] != "0")
	case "get":
		pin, err := s.cfg.Resolve(args[0])
		if err != nil {
			return err
		}
		v, err := s.conn.GetPin(pin)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "pin %d = %d\n", pin, boolToInt(v))
		return nil
	}

	// Remaining commands act on one bound pin
	if _, ok := want[cmd]; !ok {
		return fmt.Errorf("unknown command %q (type 'help')", cmd)
	}
	oid, err := s.oid(args[0])
	if err != nil {
		return err
	}
	switch cmd {
	case "output":
		return s.conn.SetMode(oid, true)
	case "input":
		return s.conn.SetMode(oid, false)
	case "high":
		return s.conn.Write(oid, true)
	case "low":
		return s.conn.Write(oid, false)
	case "toggle":
		return s.conn.Toggle(oid)
	default: // read
		st, err := s.conn.Query(oid)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "oid %d pin %d = %d\n", st.OID, st.Pin, boolToInt(st.Value))
		return nil
	}
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.out, "Available commands (<p> is a configured name or oid):")
	fmt.Fprintln(s.out, "  bind <p> <pin>     - Bind an oid to a logical pin or pin name")
	fmt.Fprintln(s.out, "  bindid <p> <id>    - Bind an oid to a chip pin identifier (0x...)")
	fmt.Fprintln(s.out, "  output|input <p>   - Set pin direction")
	fmt.Fprintln(s.out, "  high|low <p>       - Drive pin level")
	fmt.Fprintln(s.out, "  toggle <p>         - Toggle pin level")
	fmt.Fprintln(s.out, "  read <p>           - Read pin level")
	fmt.Fprintln(s.out, "  set <pin> <0|1>    - Drive a pin without an oid")
	fmt.Fprintln(s.out, "  get <pin>          - Read a pin without an oid")
	fmt.Fprintln(s.out, "  pins               - List configured pins")
	fmt.Fprintln(s.out, "  reset              - Release all bound pins")
	fmt.Fprintln(s.out, "  quit/exit/q        - Exit the program")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
