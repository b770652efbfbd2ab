package wire

import (
	"fmt"

	"github.com/nameplane/dnswire/internal/dns/domain"
)

// QueryMessage is a DNS query: the fixed header plus the question
// section. Answer sections are out of scope here; responses are built
// by whoever owns the records.
type QueryMessage struct {
	Header    Header
	Questions []domain.Question
}

// NewQueryMessage returns a recursion desired query for the given
// questions.
func NewQueryMessage(id uint16, questions ...domain.Question) QueryMessage {
	return QueryMessage{
		Header:    Header{ID: id, Flags: FlagRecursionDesired},
		Questions: questions,
	}
}

// EncodeQueryMessage serializes the message. QDCount is derived from
// the question slice; the remaining counts are taken from the header as
// given. Question names share one compression dictionary, so repeated
// suffixes across questions collapse into pointers.
func EncodeQueryMessage(e *Encoder, m QueryMessage) error {
	if len(m.Questions) > 65535 {
		return fmt.Errorf("too many questions: %d (max 65535)", len(m.Questions))
	}
	h := m.Header
	h.QDCount = uint16(len(m.Questions))
	EncodeHeader(e, h)
	for i, q := range m.Questions {
		if err := EncodeQuestion(e, q); err != nil {
			return fmt.Errorf("encoding question %d: %w", i, err)
		}
	}
	return nil
}

// DecodeQueryMessage parses a query message: the header followed by
// QDCount questions. The question slice grows as entries decode, so a
// lying QDCount over a short buffer fails without a large allocation.
func DecodeQueryMessage(d *Decoder) (QueryMessage, error) {
	h, err := DecodeHeader(d)
	if err != nil {
		return QueryMessage{}, err
	}
	var questions []domain.Question
	for i := 0; i < int(h.QDCount); i++ {
		q, err := DecodeQuestion(d)
		if err != nil {
			return QueryMessage{}, fmt.Errorf("decoding question %d: %w", i, err)
		}
		questions = append(questions, q)
	}
	return QueryMessage{Header: h, Questions: questions}, nil
}
