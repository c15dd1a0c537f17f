package race

import "time"

// commandKind names the inverse operation a command applies on undo.
type commandKind uint8

const (
	// cmdRemove undoes an append by removing the entry at seq.
	cmdRemove commandKind = iota
	// cmdReinsert undoes a delete by restoring the entry at its position.
	cmdReinsert
	// cmdRestoreTime undoes an edit by restoring the previous instant.
	cmdRestoreTime
	// cmdRestoreStatus undoes a DNF mark by restoring the previous status.
	cmdRestoreStatus
)

// command captures the inverse of one mutation. Commands reference ledger
// sequences and positions, never live entry pointers, so the stack stays
// coherent while entries move around it.
type command struct {
	kind       commandKind
	seq        int
	pos        int
	entry      Entry
	prevTime   time.Time
	prevStatus Status
}

func (s *Session) pushUndo(c command) {
	s.undo = append(s.undo, c)
}

var commandKindNames = map[commandKind]string{
	cmdRemove:        "remove",
	cmdReinsert:      "reinsert",
	cmdRestoreTime:   "restore_time",
	cmdRestoreStatus: "restore_status",
}

// marshalCommand converts a stack element to its serialized form.
func marshalCommand(c command) UndoCommand {
	uc := UndoCommand{
		Kind:       commandKindNames[c.kind],
		Seq:        c.seq,
		Pos:        c.pos,
		PrevTime:   c.prevTime,
		PrevStatus: c.prevStatus,
	}
	if c.kind == cmdReinsert {
		e := c.entry
		uc.Entry = &e
	}
	return uc
}

// unmarshalCommand rebuilds a stack element; unknown kinds are rejected so a
// corrupt stack cannot silently misapply.
func unmarshalCommand(uc UndoCommand) (command, bool) {
	c := command{
		seq:        uc.Seq,
		pos:        uc.Pos,
		prevTime:   uc.PrevTime,
		prevStatus: uc.PrevStatus,
	}
	if uc.Entry != nil {
		c.entry = *uc.Entry
	}
	for kind, name := range commandKindNames {
		if name == uc.Kind {
			c.kind = kind
			return c, true
		}
	}
	return command{}, false
}

// applyUndo pops and applies the most recent command. Callers hold the lock.
func (s *Session) applyUndo() error {
	if len(s.undo) == 0 {
		return ErrNothingToUndo
	}
	c := s.undo[len(s.undo)-1]

	switch c.kind {
	case cmdRemove:
		pos := s.ledgerPos(c.seq)
		if pos < 0 {
			return ErrNoSuchEntry
		}
		s.ledger = append(s.ledger[:pos], s.ledger[pos+1:]...)
		// Reclaim the sequence when the undone append is still the newest,
		// so record-then-undo leaves the counter untouched.
		if c.seq == s.nextSeq-1 {
			s.nextSeq--
		}
	case cmdReinsert:
		pos := c.pos
		if pos < 0 || pos > len(s.ledger) {
			pos = len(s.ledger)
		}
		e := c.entry
		s.ledger = append(s.ledger[:pos], append([]Entry{e}, s.ledger[pos:]...)...)
	case cmdRestoreTime:
		pos := s.ledgerPos(c.seq)
		if pos < 0 {
			return ErrNoSuchEntry
		}
		s.ledger[pos].FinishedAt = c.prevTime
		s.ledger[pos].Status = c.prevStatus
	case cmdRestoreStatus:
		pos := s.ledgerPos(c.seq)
		if pos < 0 {
			return ErrNoSuchEntry
		}
		s.ledger[pos].Status = c.prevStatus
	}

	s.undo = s.undo[:len(s.undo)-1]
	return nil
}
