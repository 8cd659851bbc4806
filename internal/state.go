package internal

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Change categories components can subscribe to.
type Category string

const (
	PlayerUpdated     Category = "player_updated"
	GatewayUpdated    Category = "gateway_updated"
	ConnectionUpdated Category = "connection_updated"
	ScreenUpdated     Category = "screen_updated"
	TasksUpdated      Category = "tasks_updated"
	MessagesUpdated   Category = "messages_updated"
	MissionsUpdated   Category = "missions_updated"
	TimeUpdated       Category = "time_updated"
	SpeedUpdated      Category = "speed_updated"
	TraceUpdated      Category = "trace_updated"
	SoftwareUpdated   Category = "software_updated"
)

// The in-game epoch. Each tick advances game time by ten seconds.
var gameEpoch = time.Date(2010, time.March, 24, 0, 0, 0, 0, time.UTC)

type Player struct {
	Handle            string `json:"handle"`
	Balance           int64  `json:"balance"`
	UplinkRating      int    `json:"uplink_rating"`
	NeuromancerRating int    `json:"neuromancer_rating"`
}

type Gateway struct {
	Name       string `json:"name"`
	CPUSpeed   int    `json:"cpu_speed"`
	ModemSpeed int    `json:"modem_speed"`
	MemorySize int    `json:"memory_size"`
}

// Hop is one entry in the bounce chain. Position is the hop's slot in
// the chain and doubles as the removal key sent back to the server.
type Hop struct {
	Address  string `json:"ip"`
	Position int    `json:"position"`
	IsTraced bool   `json:"is_traced"`
}

type Connection struct {
	IsConnected   bool
	TargetAddress string
	BounceChain   []Hop
	TraceActive   bool
	// TraceProgress is stored exactly as pushed by the server; it may
	// exceed 1.0. Renderers clamp for display only.
	TraceProgress float64
}

type RunningTask struct {
	ID            int     `json:"id"`
	ToolName      string  `json:"tool_name"`
	TargetAddress string  `json:"target_ip"`
	Progress      float64 `json:"progress"`
	IsActive      bool    `json:"is_active"`
}

type Message struct {
	ID      int    `json:"id"`
	From    string `json:"from_name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	IsRead  bool   `json:"is_read"`
}

type Mission struct {
	ID          int    `json:"id"`
	Employer    string `json:"employer_name"`
	Description string `json:"description"`
	Payment     int64  `json:"payment"`
	Difficulty  int    `json:"difficulty"`
}

type Software struct {
	Name    string  `json:"name"`
	Version float64 `json:"version"`
}

type GameTime struct {
	Ticks      int64
	DateString string
}

// State is the single writable source of truth for the play session.
// It is constructed once and passed by reference to every component;
// widgets hold only a read reference and subscriptions, never copies.
type State struct {
	mu     sync.RWMutex
	logger *slog.Logger

	player     Player
	gateway    Gateway
	connection Connection
	screen     *ScreenDescriptor

	tasks       []RunningTask
	messages    []Message
	unreadCount int

	availableMissions []Mission
	activeMissions    []Mission

	software []Software

	gameTime GameTime
	speed    int

	subs      map[Category][]subscriber
	nextSubID int
}

type subscriber struct {
	id int
	fn func()
}

func NewState(logger *slog.Logger) *State {
	return &State{
		logger: logger,
		speed:  1,
		subs:   make(map[Category][]subscriber),
	}
}

// Subscribe registers fn for a change category and returns a func that
// removes the registration. Within a category, handlers run in
// registration order. Handlers must re-read state rather than retain
// private copies.
func (s *State) Subscribe(cat Category, fn func()) func() {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[cat] = append(s.subs[cat], subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		list := s.subs[cat]
		for i := range list {
			if list[i].id == id {
				s.subs[cat] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

func (s *State) notify(cat Category) {
	s.mu.RLock()
	subs := s.subs[cat]
	s.mu.RUnlock()
	for _, sub := range subs {
		sub.fn()
	}
}

// ---- Player / gateway ----

type PlayerDelta struct {
	Handle            *string `json:"handle"`
	Balance           *int64  `json:"balance"`
	UplinkRating      *int    `json:"uplink_rating"`
	NeuromancerRating *int    `json:"neuromancer_rating"`
}

func (s *State) UpdatePlayer(d PlayerDelta) {
	s.mu.Lock()
	if d.Handle != nil {
		s.player.Handle = *d.Handle
	}
	if d.Balance != nil {
		s.player.Balance = *d.Balance
	}
	if d.UplinkRating != nil {
		s.player.UplinkRating = *d.UplinkRating
	}
	if d.NeuromancerRating != nil {
		s.player.NeuromancerRating = *d.NeuromancerRating
	}
	s.mu.Unlock()
	s.notify(PlayerUpdated)
}

func (s *State) Player() Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.player
}

type GatewayDelta struct {
	Name       *string `json:"name"`
	CPUSpeed   *int    `json:"cpu_speed"`
	ModemSpeed *int    `json:"modem_speed"`
	MemorySize *int    `json:"memory_size"`
}

func (s *State) UpdateGateway(d GatewayDelta) {
	s.mu.Lock()
	if d.Name != nil {
		s.gateway.Name = *d.Name
	}
	if d.CPUSpeed != nil {
		s.gateway.CPUSpeed = *d.CPUSpeed
	}
	if d.ModemSpeed != nil {
		s.gateway.ModemSpeed = *d.ModemSpeed
	}
	if d.MemorySize != nil {
		s.gateway.MemorySize = *d.MemorySize
	}
	s.mu.Unlock()
	s.notify(GatewayUpdated)
}

func (s *State) Gateway() Gateway {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gateway
}

// ---- Connection / bounce chain / trace ----

func (s *State) SetConnected(connected bool, targetAddress string) {
	s.mu.Lock()
	s.connection.IsConnected = connected
	s.connection.TargetAddress = targetAddress
	if !connected {
		s.connection.TraceActive = false
		s.connection.TraceProgress = 0
	}
	s.mu.Unlock()
	s.notify(ConnectionUpdated)
}

func (s *State) SetBounceChain(hops []Hop) {
	s.mu.Lock()
	s.connection.BounceChain = append([]Hop(nil), hops...)
	s.mu.Unlock()
	s.notify(ConnectionUpdated)
}

func (s *State) SetTrace(progress float64, active bool) {
	s.mu.Lock()
	s.connection.TraceProgress = progress
	s.connection.TraceActive = active
	s.mu.Unlock()
	s.notify(TraceUpdated)
}

// Connection returns a snapshot; the chain slice is copied so callers
// cannot mutate store state through it.
func (s *State) Connection() Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.connection
	c.BounceChain = append([]Hop(nil), s.connection.BounceChain...)
	return c
}

// ---- Remote screen ----

// SetScreen replaces the current remote screen descriptor wholesale.
// There is no partial patching: each push fully supersedes the last.
func (s *State) SetScreen(desc *ScreenDescriptor) {
	s.mu.Lock()
	s.screen = desc
	s.mu.Unlock()
	s.notify(ScreenUpdated)
}

func (s *State) Screen() *ScreenDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.screen
}

// ---- Tasks ----

// UpsertTasks merges incoming tasks by id: known ids update in place,
// new ids append. Order of first appearance is preserved.
func (s *State) UpsertTasks(incoming []RunningTask) {
	s.mu.Lock()
	for _, in := range incoming {
		found := false
		for i := range s.tasks {
			if s.tasks[i].ID == in.ID {
				s.tasks[i] = in
				found = true
				break
			}
		}
		if !found {
			s.tasks = append(s.tasks, in)
		}
	}
	s.mu.Unlock()
	s.notify(TasksUpdated)
}

// RemoveTask drops a task by id. Unknown ids are already satisfied and
// ignored silently.
func (s *State) RemoveTask(id int) {
	s.mu.Lock()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.mu.Unlock()
	s.notify(TasksUpdated)
}

// ActiveTasks returns only tasks still running; inactive tasks are
// never displayed.
func (s *State) ActiveTasks() []RunningTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var active []RunningTask
	for _, t := range s.tasks {
		if t.IsActive {
			active = append(active, t)
		}
	}
	return active
}

func (s *State) Tasks() []RunningTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]RunningTask(nil), s.tasks...)
}

// ---- Messages ----

// AddMessage prepends a newly received message to the mailbox.
func (s *State) AddMessage(m Message) {
	s.mu.Lock()
	s.messages = append([]Message{m}, s.messages...)
	if !m.IsRead {
		s.unreadCount++
	}
	s.mu.Unlock()
	s.notify(MessagesUpdated)
}

func (s *State) SetMessages(msgs []Message) {
	s.mu.Lock()
	s.messages = append([]Message(nil), msgs...)
	s.unreadCount = 0
	for _, m := range s.messages {
		if !m.IsRead {
			s.unreadCount++
		}
	}
	s.mu.Unlock()
	s.notify(MessagesUpdated)
}

// MarkMessageRead flips the read flag for a message. Idempotent:
// marking an already-read message changes nothing. Unknown ids are
// ignored.
func (s *State) MarkMessageRead(id int) {
	s.mu.Lock()
	changed := false
	for i := range s.messages {
		if s.messages[i].ID == id {
			if !s.messages[i].IsRead {
				s.messages[i].IsRead = true
				if s.unreadCount > 0 {
					s.unreadCount--
				}
				changed = true
			}
			break
		}
	}
	s.mu.Unlock()
	if changed {
		s.notify(MessagesUpdated)
	}
}

func (s *State) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Message(nil), s.messages...)
}

func (s *State) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unreadCount
}

// ---- Missions ----

// SetMissions replaces the mission lists. The server is authoritative:
// acceptance never mutates these locally, the next push does.
func (s *State) SetMissions(available, active []Mission) {
	s.mu.Lock()
	if available != nil {
		s.availableMissions = append([]Mission(nil), available...)
	}
	if active != nil {
		s.activeMissions = append([]Mission(nil), active...)
	}
	s.mu.Unlock()
	s.notify(MissionsUpdated)
}

func (s *State) AvailableMissions() []Mission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Mission(nil), s.availableMissions...)
}

func (s *State) ActiveMissions() []Mission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Mission(nil), s.activeMissions...)
}

// ---- Software ----

// SetSoftware replaces the inventory, deduplicating by name and keeping
// the highest version of each tool.
func (s *State) SetSoftware(sw []Software) {
	s.mu.Lock()
	byName := make(map[string]int)
	var deduped []Software
	for _, item := range sw {
		if i, ok := byName[item.Name]; ok {
			if item.Version > deduped[i].Version {
				deduped[i].Version = item.Version
			}
			continue
		}
		byName[item.Name] = len(deduped)
		deduped = append(deduped, item)
	}
	s.software = deduped
	s.mu.Unlock()
	s.notify(SoftwareUpdated)
}

func (s *State) Software() []Software {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Software(nil), s.software...)
}

// ---- Time / speed ----

// UpdateGameTime sets the tick counter and derives the date string from
// the in-game epoch.
func (s *State) UpdateGameTime(ticks int64) {
	current := gameEpoch.Add(time.Duration(ticks) * 10 * time.Second)
	s.mu.Lock()
	s.gameTime = GameTime{
		Ticks:      ticks,
		DateString: current.Format("2006-01-02 15:04:05"),
	}
	s.mu.Unlock()
	s.notify(TimeUpdated)
}

func (s *State) GameTime() GameTime {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameTime
}

func (s *State) SetSpeed(speed int) {
	s.mu.Lock()
	s.speed = speed
	s.mu.Unlock()
	s.notify(SpeedUpdated)
}

func (s *State) Speed() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.speed
}

// SpeedLabel names the current speed multiplier for the HUD.
func (s *State) SpeedLabel() string {
	switch s.Speed() {
	case 0:
		return "PAUSED"
	case 1:
		return "NORMAL"
	case 3:
		return "FAST"
	case 8:
		return "MEGA"
	default:
		return fmt.Sprintf("x%d", s.Speed())
	}
}

// Reset returns all state to defaults. Subscriptions survive.
func (s *State) Reset() {
	s.mu.Lock()
	s.player = Player{}
	s.gateway = Gateway{}
	s.connection = Connection{}
	s.screen = nil
	s.tasks = nil
	s.messages = nil
	s.unreadCount = 0
	s.availableMissions = nil
	s.activeMissions = nil
	s.software = nil
	s.gameTime = GameTime{}
	s.speed = 1
	s.mu.Unlock()
}
