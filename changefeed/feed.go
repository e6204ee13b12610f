package changefeed

import "sync"

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Event là một thay đổi đã commit trên một bảng
type Event struct {
	Type    EventType   `json:"event_type"`
	Table   string      `json:"table"`
	Payload interface{} `json:"payload"`
}

// Feed phát sự kiện thay đổi tới mọi subscriber đang đăng ký.
// Không replay: subscriber đăng ký sau khi sự kiện đã phát sẽ không nhận lại,
// phía nhận phải fetch toàn bộ danh sách trước rồi mới dựa vào feed.
type Feed struct {
	mu   sync.RWMutex
	subs map[string]func(Event)
}

func New() *Feed {
	return &Feed{subs: make(map[string]func(Event))}
}

// Subscribe đăng ký callback theo tên. Đăng ký lại cùng tên sẽ thay thế
// subscription cũ, tránh một sự kiện gọi callback hai lần.
func (f *Feed) Subscribe(name string, fn func(Event)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[name] = fn
}

// Unsubscribe luôn an toàn, gọi nhiều lần không sao.
// Phải gọi khi view/handler không còn dùng feed nữa.
func (f *Feed) Unsubscribe(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, name)
}

// Publish fan-out sự kiện tới mọi subscriber hiện tại.
// Chỉ gọi sau khi ghi DB thành công; ghi thất bại không phát sự kiện.
func (f *Feed) Publish(evt Event) {
	f.mu.RLock()
	fns := make([]func(Event), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.RUnlock()

	// Gọi callback ngoài lock để subscriber được phép Subscribe/Unsubscribe bên trong callback
	for _, fn := range fns {
		fn(evt)
	}
}

// SubscriberCount dùng cho health check
func (f *Feed) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

const TableStudyMaterials = "study_materials"

// Materials là feed chung cho bảng study_materials
var Materials = New()

// PublishMaterial phát một thay đổi học liệu lên feed chung
func PublishMaterial(t EventType, payload interface{}) {
	Materials.Publish(Event{Type: t, Table: TableStudyMaterials, Payload: payload})
}
