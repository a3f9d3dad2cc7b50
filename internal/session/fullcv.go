// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package session

// The full-CV sequencer is idle while st.fullCV is false. While active,
// st.sectionCursor is the index of the section being typed.

func (s *Session) startFullCV() error {
	s.st.fullCV = true
	s.st.sectionCursor = 0
	if len(s.cfg.Sections) == 0 {
		s.resetFullCV()
		return nil
	}
	if err := s.writeSection(s.cfg.Sections[0]); err != nil {
		s.resetFullCV()
		return err
	}
	return nil
}

// advanceFullCV runs after a section finished typing.
func (s *Session) advanceFullCV() {
	s.st.sectionCursor++
	if s.st.sectionCursor < len(s.cfg.Sections) {
		if err := s.writeSection(s.cfg.Sections[s.st.sectionCursor]); err != nil {
			s.fail(err)
		}
		return
	}
	s.resetFullCV()
	s.writePrompt()
}

func (s *Session) resetFullCV() {
	s.st.sectionCursor = 0
	s.st.fullCV = false
}
