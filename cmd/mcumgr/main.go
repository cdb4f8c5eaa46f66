package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rudislabs/mcumgr-client/pkg/fleet"
	"github.com/rudislabs/mcumgr-client/pkg/mgmt"
	"github.com/rudislabs/mcumgr-client/pkg/nmp"
	"github.com/rudislabs/mcumgr-client/pkg/transport"
)

// Configuration flags, following the teacher's package-level flag.String/
// flag.Int style (cmd/bluetooth-service/main.go).
var (
	device   = flag.String("device", "", "serial device path")
	host     = flag.String("host", "", "UDP host (use instead of -device for a UDP connection)")
	port     = flag.Int("port", 1337, "UDP port")
	baudRate = flag.Int("baud", 115200, "serial baud rate")

	initialTimeoutS  = flag.Float64("initial-timeout", 60, "initial timeout in seconds, awaiting the first response byte")
	subsequentTimeMs = flag.Uint("subsequent-timeout", 200, "subsequent timeout in milliseconds, once the link is live")
	nbRetry          = flag.Int("nb-retry", 4, "number of retries per request on timeout")
	lineLength       = flag.Int("linelength", 128, "maximum bytes per framed serial line")
	chunkSize        = flag.Int("mtu", 512, "maximum payload bytes per upload/download request")

	redisAddr = flag.String("fleet-redis-addr", "", "Redis address for fleet progress publication (empty disables)")
	redisPass = flag.String("fleet-redis-pass", "", "Redis password")
	redisDB   = flag.Int("fleet-redis-db", 0, "Redis database number")
	deviceID  = flag.String("fleet-device-id", "", "device identifier used for fleet publication")
)

// formatBytes renders a byte count the way original_source/src/main.rs's
// format_bytes does, for the upload/download summaries below.
func formatBytes(size uint32) string {
	units := []string{"B", "KB", "MB", "GB"}
	f := float64(size)
	for _, u := range units {
		if f < 1024 {
			return fmt.Sprintf("%.1f %s", f, u)
		}
		f /= 1024
	}
	return fmt.Sprintf("%.1f TB", f)
}

func newClient() (*mgmt.Client, error) {
	var c *mgmt.Client
	var err error

	if *host != "" {
		c, err = mgmt.NewUDPClient(transport.UDPSpecs{
			Host:      *host,
			Port:      *port,
			TimeoutMs: uint32(*initialTimeoutS * 1000),
			MTU:       *chunkSize,
		}, *nbRetry)
	} else {
		c, err = mgmt.NewSerialClient(transport.SerialSpecs{
			Device:              *device,
			BaudRate:            *baudRate,
			LineLength:          *lineLength,
			InitialTimeoutSecs:  *initialTimeoutS,
			SubsequentTimeoutMs: uint32(*subsequentTimeMs),
			MTU:                 *chunkSize,
		}, *nbRetry)
	}
	if err != nil {
		return nil, err
	}

	c.ChunkSize = *chunkSize
	c.Device = *deviceID

	if *redisAddr != "" {
		pub, err := fleet.NewPublisher(*redisAddr, *redisPass, *redisDB)
		if err != nil {
			log.Printf("fleet: continuing without Redis publication: %v", err)
		} else {
			c.Fleet = pub
		}
	}
	return c, nil
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		log.Fatalf("usage: mcumgr [flags] <command> [args...]")
	}
	command, rest := args[0], args[1:]

	c, err := newClient()
	if err != nil {
		log.Fatalf("failed to open transport: %v", err)
	}
	if closer, ok := c.Transport.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	if c.Fleet != nil {
		defer c.Fleet.Close()
	}

	if err := run(c, command, rest); err != nil {
		log.Fatalf("%s: %v", command, err)
	}
}

func run(c *mgmt.Client, command string, args []string) error {
	switch command {
	case "list":
		rsp, err := c.ImageList()
		if err != nil {
			return err
		}
		for _, img := range rsp.Images {
			fmt.Printf("slot %d: version=%s active=%v confirmed=%v pending=%v\n",
				img.Slot, img.Version, img.Active, img.Confirmed, img.Pending)
		}
		return nil

	case "upload":
		if len(args) < 1 {
			return fmt.Errorf("usage: upload <filename> [slot]")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var slot uint8 = 1
		if len(args) > 1 {
			fmt.Sscanf(args[1], "%d", &slot)
		}
		fmt.Printf("uploading %s to device\n", formatBytes(uint32(len(data))))
		return c.ImageUpload(slot, data, nil, uint32(*subsequentTimeMs))

	case "test":
		if len(args) < 1 {
			return fmt.Errorf("usage: test <hash-hex> [confirm]")
		}
		hash, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("decode hash: %w", err)
		}
		var confirm *bool
		if len(args) > 1 {
			b := args[1] == "true"
			confirm = &b
		}
		_, err = c.ImageTest(hash, confirm)
		return err

	case "erase":
		var slot *uint32
		if len(args) > 0 {
			var s uint32
			fmt.Sscanf(args[0], "%d", &s)
			slot = &s
		}
		return c.ImageErase(slot)

	case "reset":
		return c.Reset(nil)

	case "echo":
		message := "hello"
		if len(args) > 0 {
			message = args[0]
		}
		out, err := c.Echo(message)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil

	case "taskstat":
		rsp, err := c.TaskStat()
		if err != nil {
			return err
		}
		for name, task := range rsp.Tasks {
			fmt.Printf("%s: prio=%d state=%d stack=%d/%d\n", name, task.Prio, task.State, task.StackUse, task.StackSize)
		}
		return nil

	case "mcumgr-params":
		params, err := c.McumgrParams()
		if err != nil {
			return err
		}
		fmt.Printf("Buffer size:  %s\n", formatBytes(params.BufSize))
		fmt.Printf("Buffer count: %d\n", params.BufCount)
		return nil

	case "os-info":
		format := "a"
		if len(args) > 0 {
			format = args[0]
		}
		out, err := c.OSInfo(&format)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil

	case "bootloader-info":
		var query *string
		if len(args) > 0 {
			query = &args[0]
		}
		rsp, err := c.BootloaderInfo(query)
		if err != nil {
			return err
		}
		fmt.Printf("bootloader: %s\n", rsp.Bootloader)
		if rsp.Mode != nil {
			fmt.Printf("mode: %d (%s)\n", *rsp.Mode, nmp.McubootModeName(*rsp.Mode))
		}
		return nil

	case "shell":
		rsp, err := c.ShellExec(args)
		if err != nil {
			return err
		}
		fmt.Println(rsp.O)
		if rsp.RC != 0 {
			return fmt.Errorf("shell command exited with status %d", rsp.RC)
		}
		return nil

	case "fs-download":
		if len(args) < 2 {
			return fmt.Errorf("usage: fs-download <remote-path> <local-path>")
		}
		data, err := c.FileDownload(args[0], uint32(*subsequentTimeMs))
		if err != nil {
			return err
		}
		fmt.Printf("downloaded %s\n", formatBytes(uint32(len(data))))
		return os.WriteFile(args[1], data, 0o644)

	case "fs-upload":
		if len(args) < 2 {
			return fmt.Errorf("usage: fs-upload <local-path> <remote-path>")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("uploading %s\n", formatBytes(uint32(len(data))))
		return c.FileUpload(args[1], data, uint32(*subsequentTimeMs))

	case "fs-stat":
		if len(args) < 1 {
			return fmt.Errorf("usage: fs-stat <path>")
		}
		size, err := c.FileStat(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("size: %s (%d bytes)\n", formatBytes(size), size)
		return nil

	case "fs-hash":
		if len(args) < 1 {
			return fmt.Errorf("usage: fs-hash <path> [hash-type]")
		}
		var hashType *string
		if len(args) > 1 {
			hashType = &args[1]
		}
		rsp, err := c.FileHash(args[0], hashType, nil, nil)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", rsp.HashType, hex.EncodeToString(rsp.Output))
		return nil

	case "stat-list":
		names, err := c.StatList()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil

	case "stat-read":
		if len(args) < 1 {
			return fmt.Errorf("usage: stat-read <name>")
		}
		fields, err := c.StatRead(args[0])
		if err != nil {
			return err
		}
		for k, v := range fields {
			fmt.Printf("%s: %d\n", k, v)
		}
		return nil

	case "settings-read":
		if len(args) < 1 {
			return fmt.Errorf("usage: settings-read <name>")
		}
		val, err := c.SettingsRead(args[0], nil)
		if err != nil {
			return err
		}
		fmt.Println(hex.EncodeToString(val))
		return nil

	case "settings-write":
		if len(args) < 2 {
			return fmt.Errorf("usage: settings-write <name> <hex-value>")
		}
		val, err := hex.DecodeString(args[1])
		if err != nil {
			return fmt.Errorf("decode value: %w", err)
		}
		return c.SettingsWrite(args[0], val)

	case "settings-delete":
		if len(args) < 1 {
			return fmt.Errorf("usage: settings-delete <name>")
		}
		return c.SettingsDelete(args[0])

	case "settings-commit":
		return c.SettingsCommit()

	case "settings-load":
		return c.SettingsLoad()

	case "settings-save":
		return c.SettingsSave()

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
