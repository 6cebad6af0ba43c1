package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/achilleasa/octant/scene"
	"github.com/achilleasa/octant/types"
	"github.com/chzyer/readline"
	"github.com/urfave/cli"
)

var errQuit = errors.New("quit")

const shellHelp = `commands:
  add x y z                  set voxel
  remove x y z               clear voxel
  solid x y z                query voxel
  ray ox oy oz dx dy dz      trace ray with the active method
  method [octree|stack|dda|brick]
                             show or change the active method
  stats                      print store statistics
  help                       show this message
  quit                       exit the shell
`

// Insert a voxel into both stores.
func (w *world) add(pos types.IVec3) bool {
	added := w.tree.AddBlock(pos)
	scene.BrickInserter{Grid: w.grid}.AddBlock(pos)
	return added
}

// Remove a voxel from both stores.
func (w *world) remove(pos types.IVec3) bool {
	removed := w.tree.RemoveBlock(pos)
	w.grid.Clear(pos)
	return removed
}

// An interactive session editing and querying a world.
type shell struct {
	world       *world
	method      string
	maxDistance float32
}

func newShell(w *world) *shell {
	return &shell{
		world:       w,
		method:      "stack",
		maxDistance: 4 * float32(w.opts.Size),
	}
}

// Run a single command and write its output to out. Returns errQuit when the
// session should end.
func (s *shell) exec(line string, out io.Writer) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "add", "remove", "solid":
		pos, err := parseIVec3(args)
		if err != nil {
			return err
		}
		switch cmd {
		case "add":
			fmt.Fprintf(out, "added=%t\n", s.world.add(pos))
		case "remove":
			fmt.Fprintf(out, "removed=%t\n", s.world.remove(pos))
		default:
			fmt.Fprintf(out, "solid=%t\n", s.world.tree.IsSolidAt(pos))
		}
	case "ray":
		if len(args) != 6 {
			return errors.New("usage: ray ox oy oz dx dy dz")
		}
		var v [6]float32
		for i, arg := range args {
			f, err := strconv.ParseFloat(arg, 32)
			if err != nil {
				return fmt.Errorf("invalid ray component %q", arg)
			}
			v[i] = float32(f)
		}
		tr, err := s.world.tracer(s.method, s.maxDistance)
		if err != nil {
			return err
		}
		hit, ok := tr.Trace(types.XYZ(v[0], v[1], v[2]), types.XYZ(v[3], v[4], v[5]))
		if !ok {
			fmt.Fprintln(out, "miss")
			return nil
		}
		fmt.Fprintf(out, "hit voxel=%v t=%.4f normal=%v\n", hit.Voxel, hit.T, hit.Normal)
	case "method":
		if len(args) == 0 {
			fmt.Fprintln(out, s.method)
			return nil
		}
		if _, err := s.world.tracer(args[0], s.maxDistance); err != nil {
			return err
		}
		s.method = args[0]
	case "stats":
		fmt.Fprintf(out, "%s\n%s\n", s.world.tree.Stats(), s.world.grid.Stats())
	case "help":
		fmt.Fprint(out, shellHelp)
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q; type help for a list of commands", cmd)
	}
	return nil
}

func parseIVec3(args []string) (types.IVec3, error) {
	var pos types.IVec3
	if len(args) != 3 {
		return pos, errors.New("expected x y z voxel coordinates")
	}
	for axis, arg := range args {
		v, err := strconv.ParseInt(arg, 10, 32)
		if err != nil {
			return pos, fmt.Errorf("invalid coordinate %q", arg)
		}
		pos[axis] = int32(v)
	}
	return pos, nil
}

// Start an interactive shell for editing and querying the generated scene.
func Shell(ctx *cli.Context) error {
	setupLogging(ctx)

	w, err := buildWorld(sceneOptionsFromCtx(ctx))
	if err != nil {
		return err
	}
	s := newShell(w)

	rl, err := readline.NewEx(&readline.Config{
		Prompt: "octant> ",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("add"),
			readline.PcItem("remove"),
			readline.PcItem("solid"),
			readline.PcItem("ray"),
			readline.PcItem("method",
				readline.PcItem("octree"),
				readline.PcItem("stack"),
				readline.PcItem("dda"),
				readline.PcItem("brick"),
			),
			readline.PcItem("stats"),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if err == io.EOF {
			return nil
		}

		err = s.exec(line, rl.Stdout())
		if err == errQuit {
			return nil
		}
		if err != nil {
			fmt.Fprintf(rl.Stderr(), "error: %v\n", err)
		}
	}
}
