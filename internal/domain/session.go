package domain

import "github.com/vismatch/go-backend/pkg/e"

// SessionState — состояние поисковой сессии.
type SessionState int

const (
	StateIdle SessionState = iota
	StateLoading
	StateSuccess
	StateError
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Session — машина состояний поисковой сессии, не привязанная к слою отображения.
// Переходы: Idle|Success|Error --Start--> Loading; Loading --Ok--> Success;
// Loading --Fail--> Error. Повторный Start во время Loading отклоняется:
// одновременные сессии не поддерживаются.
// Все переходы чистые: возвращают новую сессию, не меняя исходную.
type Session struct {
	State   SessionState
	Message string
	Results []RankedProduct
}

func NewSession() Session {
	return Session{State: StateIdle}
}

// Start переводит сессию в Loading, сбрасывая прошлый результат.
// Из Loading возвращает ErrSearchInFlight: новый поиск во время текущего запрещён.
func (s Session) Start() (Session, error) {
	if s.State == StateLoading {
		return s, e.ErrSearchInFlight
	}

	return Session{State: StateLoading}, nil
}

// Ok завершает загрузку успешным результатом. Допустим только из Loading.
func (s Session) Ok(results []RankedProduct) (Session, error) {
	if s.State != StateLoading {
		return s, e.ErrInvalidTransition
	}

	return Session{State: StateSuccess, Results: results}, nil
}

// Fail завершает загрузку ошибкой с человекочитаемым сообщением. Допустим только из Loading.
func (s Session) Fail(message string) (Session, error) {
	if s.State != StateLoading {
		return s, e.ErrInvalidTransition
	}

	return Session{State: StateError, Message: message}, nil
}
