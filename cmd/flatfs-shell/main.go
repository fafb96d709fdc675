// Command flatfs-shell is a small interactive/scriptable front-end over the
// flatfs volume library. It is the "test harness / command shell" that
// spec.md keeps as an external collaborator; this implementation exists so
// the library can be driven by hand, not because the core depends on it.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/urfave/cli/v2"

	"github.com/abustany/flatfs/device"
	"github.com/abustany/flatfs/volume"
)

// inodeRow is the CSV-shaped projection of an inode, used by `list --csv`.
type inodeRow struct {
	ID       int    `csv:"id"`
	Name     string `csv:"name"`
	Type     string `csv:"type"`
	Size     int32  `csv:"size"`
	Integrity bool  `csv:"integrity"`
}

func main() {
	app := &cli.App{
		Name:  "flatfs-shell",
		Usage: "create, mount, and drive a flatfs volume image by hand",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "image", Value: "flatfs.img", Usage: "path to the backing image file"},
			&cli.IntFlag{Name: "blocks", Value: 300, Usage: "total blocks in the image (used only by mkfs)"},
		},
		Commands: []*cli.Command{
			{
				Name:      "mkfs",
				Usage:     "format a new volume image",
				ArgsUsage: "SIZE_BYTES",
				Action:    cmdMkfs,
			},
			{
				Name:   "create",
				Usage:  "create an empty file",
				Action: withVolume(func(v *volume.Volume, c *cli.Context) error {
					return code(v.CreateFile(c.Args().First()))
				}),
			},
			{
				Name:   "rm",
				Usage:  "remove a file",
				Action: withVolume(func(v *volume.Volume, c *cli.Context) error {
					return code(v.RemoveFile(c.Args().First()))
				}),
			},
			{
				Name:   "ln",
				Usage:  "create a symbolic link: ln FILE LINK",
				Action: withVolume(func(v *volume.Volume, c *cli.Context) error {
					return code(v.CreateLn(c.Args().Get(0), c.Args().Get(1)))
				}),
			},
			{
				Name:   "rmln",
				Usage:  "remove a symbolic link",
				Action: withVolume(func(v *volume.Volume, c *cli.Context) error {
					return code(v.RemoveLn(c.Args().First()))
				}),
			},
			{
				Name:   "write",
				Usage:  "write stdin into a file: write NAME",
				Action: cmdWrite,
			},
			{
				Name:   "read",
				Usage:  "print a file's contents to stdout",
				Action: cmdRead,
			},
			{
				Name:   "seal",
				Usage:  "compute and store a file's integrity checksum",
				Action: withVolume(func(v *volume.Volume, c *cli.Context) error {
					return code(v.IncludeIntegrity(c.Args().First()))
				}),
			},
			{
				Name:   "check",
				Usage:  "verify a file's stored checksum against its contents",
				Action: withVolume(func(v *volume.Volume, c *cli.Context) error {
					return code(v.CheckFile(c.Args().First()))
				}),
			},
			{
				Name:  "list",
				Usage: "list every named object in the volume",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "csv", Usage: "render as CSV instead of a table"},
				},
				Action: cmdList,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("flatfs-shell: %s", err)
	}
}

func cmdMkfs(c *cli.Context) error {
	size := c.Int("blocks") * volume.BlockSize
	if c.Args().Len() > 0 {
		fmt.Sscanf(c.Args().First(), "%d", &size)
	}

	blocks := size / volume.BlockSize
	dev, err := device.Create(c.String("image"), volume.BlockSize, blocks)
	if err != nil {
		return err
	}
	defer dev.Close()

	v := volume.New(dev)
	return code(v.MakeFS(size))
}

// withVolume mounts the image named by the --image flag, runs fn, then
// unmounts, returning fn's result; the unmount's code is not reported.
func withVolume(fn func(v *volume.Volume, c *cli.Context) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		dev, v, err := openMounted(c)
		if err != nil {
			return err
		}
		defer dev.Close()
		defer v.Unmount()

		return fn(v, c)
	}
}

func openMounted(c *cli.Context) (*device.File, *volume.Volume, error) {
	info, err := os.Stat(c.String("image"))
	if err != nil {
		return nil, nil, err
	}
	blocks := int(info.Size() / volume.BlockSize)

	dev, err := device.Open(c.String("image"), volume.BlockSize, blocks)
	if err != nil {
		return nil, nil, err
	}

	v := volume.New(dev)
	if rc := v.Mount(); rc != 0 {
		dev.Close()
		return nil, nil, fmt.Errorf("mountFS failed with code %d", rc)
	}
	return dev, v, nil
}

func cmdWrite(c *cli.Context) error {
	dev, v, err := openMounted(c)
	if err != nil {
		return err
	}
	defer dev.Close()
	defer v.Unmount()

	name := c.Args().First()
	fd := v.OpenFile(name)
	if fd < 0 {
		return fmt.Errorf("openFile failed with code %d", fd)
	}
	defer v.CloseFile(fd)

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}
	if n := v.WriteFile(fd, data, len(data)); n != len(data) {
		return fmt.Errorf("short write: wrote %d of %d bytes", n, len(data))
	}
	return nil
}

func cmdRead(c *cli.Context) error {
	dev, v, err := openMounted(c)
	if err != nil {
		return err
	}
	defer dev.Close()
	defer v.Unmount()

	name := c.Args().First()
	fd := v.OpenFile(name)
	if fd < 0 {
		return fmt.Errorf("openFile failed with code %d", fd)
	}
	defer v.CloseFile(fd)

	buf := make([]byte, volume.MaxFileSize)
	n := v.ReadFile(fd, buf, len(buf))
	if n < 0 {
		return fmt.Errorf("readFile failed with code %d", n)
	}
	_, err = os.Stdout.Write(buf[:n])
	return err
}

func cmdList(c *cli.Context) error {
	dev, v, err := openMounted(c)
	if err != nil {
		return err
	}
	defer dev.Close()
	defer v.Unmount()

	rows := v.ListInodes()
	out := make([]inodeRow, 0, len(rows))
	for _, r := range rows {
		typeName := "file"
		if r.IsLink {
			typeName = "link"
		}
		out = append(out, inodeRow{
			ID:        r.ID,
			Name:      r.Name,
			Type:      typeName,
			Size:      r.Size,
			Integrity: r.IncludesIntegrity,
		})
	}

	if c.Bool("csv") {
		csvText, err := gocsv.MarshalString(&out)
		if err != nil {
			return err
		}
		fmt.Print(csvText)
		return nil
	}

	for _, row := range out {
		fmt.Printf("%3d  %-5s  %-32s  %6d bytes  integrity=%v\n", row.ID, row.Type, row.Name, row.Size, row.Integrity)
	}
	return nil
}

func code(rc int) error {
	if rc < 0 {
		return fmt.Errorf("operation failed with code %d", rc)
	}
	return nil
}
