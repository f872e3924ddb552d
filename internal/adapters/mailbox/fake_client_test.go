package mailbox

import (
	"bytes"
	"errors"
	"strings"

	"github.com/emersion/go-imap"
)

// fakeClient serves a fixed set of messages keyed by UID
type fakeClient struct {
	messages  map[uint32]string
	senders   map[uint32]string
	searchUID []uint32
	searchErr error
	fetchErr  error
	loginErr  error
	selectErr error

	criteria   *imap.SearchCriteria
	selected   string
	readOnly   bool
	fetchCalls int
	loggedOut  bool
}

func (f *fakeClient) Login(username, password string) error {
	return f.loginErr
}

func (f *fakeClient) Select(name string, readOnly bool) (*imap.MailboxStatus, error) {
	f.selected = name
	f.readOnly = readOnly
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return imap.NewMailboxStatus(name, nil), nil
}

func (f *fakeClient) UidSearch(criteria *imap.SearchCriteria) ([]uint32, error) {
	f.criteria = criteria
	return f.searchUID, f.searchErr
}

func (f *fakeClient) UidFetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error {
	defer close(ch)
	f.fetchCalls++
	if f.fetchErr != nil {
		return f.fetchErr
	}

	section := &imap.BodySectionName{Peek: true}
	// Reply in descending UID order; servers do not promise search order
	for uid := uint32(1000); uid > 0; uid-- {
		body, ok := f.messages[uid]
		if !ok || !seqset.Contains(uid) {
			continue
		}
		msg := imap.NewMessage(uid, items)
		msg.Uid = uid
		msg.Envelope = &imap.Envelope{}
		if sender, ok := f.senders[uid]; ok {
			mailbox, host, _ := strings.Cut(sender, "@")
			msg.Envelope.From = []*imap.Address{{MailboxName: mailbox, HostName: host}}
		}
		msg.Body = map[*imap.BodySectionName]imap.Literal{section: bytes.NewBufferString(body)}
		ch <- msg
	}
	return nil
}

func (f *fakeClient) Logout() error {
	f.loggedOut = true
	return nil
}

var errFake = errors.New("fake failure")
