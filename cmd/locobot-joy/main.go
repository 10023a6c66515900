// Command locobot-joy is a keyboard teleoperation client. It maps keys
// onto joystick command frames and streams them to a running
// locobot-teleop gateway over WebSocket. Terminals report key presses
// but not releases, so a held key latches its command briefly and
// decays back to neutral once the repeats stop.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"

	"github.com/stephenadhi/go-locobot/pkg/joy"
	"github.com/stephenadhi/go-locobot/pkg/teleop"
)

const (
	sendInterval = 50 * time.Millisecond
	// keyLatch keeps a command alive between terminal auto-repeats.
	keyLatch = 250 * time.Millisecond

	baseLinear  = 0.3 // m/s while a drive key is held
	baseAngular = 1.0 // rad/s while a turn key is held
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type tickMsg time.Time

type statusMsg struct {
	status teleop.Status
	err    error
}

type model struct {
	conn     *websocket.Conn
	addr     string
	cmd      joy.Command
	lastKey  time.Time
	status   teleop.Status
	statusOK bool
	sendErr  error
	quitting bool
}

func tick() tea.Cmd {
	return tea.Tick(sendInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			// Leave the robot stopped, not latched on the last key.
			m.conn.WriteJSON(joy.Command{})
			return m, tea.Quit
		}
		m.applyKey(msg.String(), &m.cmd)
		m.lastKey = time.Now()
		return m, nil

	case tickMsg:
		if time.Since(m.lastKey) > keyLatch {
			m.cmd = joy.Command{}
		}
		m.sendErr = m.conn.WriteJSON(m.cmd)
		return m, tick()

	case statusMsg:
		if msg.err == nil {
			m.status = msg.status
			m.statusOK = true
		}
		return m, nil
	}
	return m, nil
}

// applyKey folds one key press into the outgoing frame. Several keys
// can latch at once, e.g. driving while jogging the camera.
func (m *model) applyKey(key string, cmd *joy.Command) {
	switch key {
	case "w":
		cmd.BaseX = baseLinear
	case "s":
		cmd.BaseX = -baseLinear
	case "a":
		cmd.BaseTheta = baseAngular
	case "d":
		cmd.BaseTheta = -baseAngular
	case "5":
		cmd.ResetOdom = joy.ResetOdom

	case "up":
		cmd.EEX = joy.EEXInc
	case "down":
		cmd.EEX = joy.EEXDec
	case "left":
		cmd.EEY = joy.EEYInc
	case "right":
		cmd.EEY = joy.EEYDec
	case "u":
		cmd.EEZ = joy.EEZInc
	case "j":
		cmd.EEZ = joy.EEZDec
	case "i":
		cmd.EEPitch = joy.EEPitchUp
	case "k":
		cmd.EEPitch = joy.EEPitchDown
	case "o":
		cmd.EERoll = joy.EERollCCW
	case "l":
		cmd.EERoll = joy.EERollCW
	case "z":
		cmd.Waist = joy.WaistCCW
	case "x":
		cmd.Waist = joy.WaistCW

	case "1":
		cmd.Pose = joy.HomePose
	case "2":
		cmd.Pose = joy.SleepPose

	case "[":
		cmd.Pan = joy.PanCCW
	case "]":
		cmd.Pan = joy.PanCW
	case "t":
		cmd.Tilt = joy.TiltUp
	case "g":
		cmd.Tilt = joy.TiltDown
	case "0":
		cmd.Pan = joy.PanTiltHome
		cmd.Tilt = joy.PanTiltHome

	case " ":
		cmd.Gripper = joy.GripperGrasp
	case "b":
		cmd.Gripper = joy.GripperRelease
	case ".":
		cmd.GripperPWM = joy.GripperPWMInc
	case ",":
		cmd.GripperPWM = joy.GripperPWMDec

	case "+", "=":
		cmd.Speed = joy.SpeedInc
	case "-":
		cmd.Speed = joy.SpeedDec
	case "c":
		cmd.SpeedToggle = joy.SpeedCoarse
	case "v":
		cmd.SpeedToggle = joy.SpeedFine
	}
}

func (m model) View() string {
	if m.quitting {
		return "Teleoperation client stopped.\n"
	}

	s := titleStyle.Render("locobot-joy") + dimStyle.Render("  "+m.addr) + "\n\n"

	if m.statusOK {
		s += fmt.Sprintf("robot: %s  %.0f Hz (%s)",
			m.status.Model, m.status.RateHz, m.status.Profile)
		if m.status.HasArm {
			s += fmt.Sprintf("  pressure %.0f%%", m.status.Pressure*100)
		}
		s += "\n"
	} else {
		s += dimStyle.Render("waiting for robot status...") + "\n"
	}

	if !m.cmd.IsZero() {
		s += activeStyle.Render("sending") + "\n"
	} else {
		s += dimStyle.Render("idle") + "\n"
	}
	if m.sendErr != nil {
		s += errStyle.Render("send error: "+m.sendErr.Error()) + "\n"
	}

	s += "\n" + dimStyle.Render(legend) + "\n"
	return s
}

const legend = `base     w/s drive  a/d turn   5 reset odom
arm      arrows x/y  u/j z      i/k pitch  o/l roll  z/x waist
presets  1 home  2 sleep
camera   [/] pan  t/g tilt  0 center
gripper  space grasp  b release  ./, pressure
loop     +/- speed  c coarse  v fine  q quit`

// watchStatus relays status frames from the gateway into the program.
func watchStatus(addr string, p *tea.Program) {
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws/status", nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		var st teleop.Status
		if err := conn.ReadJSON(&st); err != nil {
			p.Send(statusMsg{err: err})
			return
		}
		p.Send(statusMsg{status: st})
	}
}

func main() {
	addr := flag.String("addr", "localhost:8080", "Gateway host:port")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+*addr+"/ws/joy", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot reach gateway at %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	p := tea.NewProgram(model{conn: conn, addr: *addr}, tea.WithAltScreen())
	go watchStatus(*addr, p)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "client error: %v\n", err)
		os.Exit(1)
	}
}
