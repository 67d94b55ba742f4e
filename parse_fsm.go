package cif

import (
	"fmt"
	"strconv"
	"strings"
)

// ParserState names the 13 states of the finite-state machine in
// spec.md §4.B. The transition table is encoded as the switch in
// parserState.step; any (state, token-kind) pair not handled there falls
// through to the default branch, which records ErrTokenUnexpected
// ("token_unexpected"), matching the spec's
// "unlisted pairs trigger an unexpected_token error and remain in the
// current state" rule.
type ParserState int

const (
	StInFile ParserState = iota
	StJustInData
	StJustInSave
	StJustInLoop
	StInName
	StJustInSaveLoop
	StInSaveName
	StInLoopName
	StInData
	StInSaveLoopName
	StInSave
	StInLoopValue
	StInSaveLoopValue
)

func (s ParserState) String() string {
	names := [...]string{
		"InFile", "JustInData", "JustInSave", "JustInLoop", "InName",
		"JustInSaveLoop", "InSaveName", "InLoopName", "InData",
		"InSaveLoopName", "InSave", "InLoopValue", "InSaveLoopValue",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return fmt.Sprintf("ParserState(%d)", int(s))
}

// loopAccum accumulates a loop's header and values while it is open.
type loopAccum struct {
	id       int
	headerAt Token
	cols     []Token // Name tokens, in header order
	values   [][]string
	count    int // total values consumed so far
}

type parserState struct {
	tokens []Token
	pos    int
	opts   ParseOptions

	table *FlatTable
	errs  *ParseErrors
	state ParserState

	blocks map[string]Token // normalized block code -> first occurrence

	block       string // current normalized block code
	blockToken  Token
	frames      map[string]Token // normalized frame code -> first occurrence, reset per block
	frame       string
	frameToken  Token
	names       map[string]Token // dedup scope for the CURRENT level (block-direct or in-frame), reset on scope change

	pendingName Token // Name token awaiting a value, in InName/InSaveName
	loop        *loopAccum
	nextLoopID  int
}

func (p *parserState) run() {
	if p.blocks == nil {
		p.blocks = map[string]Token{}
	}
	for p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		switch t.Kind {
		case KindComment:
			p.pos++
			continue
		case KindBad:
			p.addErr(ErrTokenBad, t, "")
			p.pos++
			continue
		case KindStop, KindGlobal, KindFrameRef, KindBrackets:
			p.addErr(ErrTokenReserved, t, t.Kind.String()+" is not a legal CIF construct")
			p.pos++
			continue
		}
		p.step(t)
		p.pos++
	}
	p.atEOF()
}

func (p *parserState) cur() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	if len(p.tokens) == 0 {
		return Token{}
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parserState) addErr(kind ParseErrorKind, t Token, msg string) {
	e := &ParseError{
		Kind:       kind,
		TokenIndex: p.pos,
		Start:      t.Start,
		End:        t.End,
		State:      p.state,
		Block:      p.block,
		Frame:      p.frame,
		Message:    msg,
	}
	p.errs.add(e)
}

func (p *parserState) addDupErr(kind ParseErrorKind, t Token, prior Token, what string) {
	e := &ParseError{
		Kind:       kind,
		TokenIndex: p.pos,
		Start:      t.Start,
		End:        t.End,
		State:      p.state,
		Block:      p.block,
		Frame:      p.frame,
		Name:       what,
		HasPrior:   true,
		PriorStart: prior.Start,
		PriorEnd:   prior.End,
	}
	p.errs.add(e)
}

func (p *parserState) inFrameScope() bool {
	switch p.state {
	case StJustInSave, StInSave, StJustInSaveLoop, StInSaveName, StInSaveLoopName, StInSaveLoopValue:
		return true
	default:
		return false
	}
}

// step dispatches t in the current state.
func (p *parserState) step(t Token) {
	switch p.state {
	case StInFile:
		p.stepInFile(t)
	case StJustInData, StInData:
		p.stepInData(t)
	case StJustInSave, StInSave:
		p.stepInSave(t)
	case StJustInLoop:
		p.stepJustInLoop(t)
	case StJustInSaveLoop:
		p.stepJustInSaveLoop(t)
	case StInName:
		p.stepInName(t, false)
	case StInSaveName:
		p.stepInName(t, true)
	case StInLoopName:
		p.stepInLoopName(t, false)
	case StInSaveLoopName:
		p.stepInLoopName(t, true)
	case StInLoopValue:
		p.stepInLoopValue(t, false)
	case StInSaveLoopValue:
		p.stepInLoopValue(t, true)
	default:
		p.unexpected(t)
	}
}

func (p *parserState) unexpected(t Token) {
	p.addErr(ErrTokenUnexpected, t, "unexpected "+t.Kind.String()+" in state "+p.state.String())
}

// -- InFile ------------------------------------------------------------

func (p *parserState) stepInFile(t Token) {
	if t.Kind == KindBlockCode {
		p.openBlock(t)
		p.state = StJustInData
		return
	}
	p.unexpected(t)
}

func (p *parserState) openBlock(t Token) {
	name := p.opts.CaseNormalization.apply(t.Text)
	if name == "" {
		p.addErr(ErrBlockCodeEmpty, t, "")
	} else if prior, ok := p.blocks[name]; ok {
		p.addDupErr(ErrBlockCodeDuplicate, t, prior, name)
	} else {
		p.blocks[name] = t
	}
	p.block = name
	p.blockToken = t
	p.frame = ""
	p.frames = map[string]Token{}
	p.names = map[string]Token{}
}

// -- JustInData / InData (data-block context, no loop open) ------------

func (p *parserState) stepInData(t Token) {
	switch t.Kind {
	case KindBlockCode:
		p.openBlock(t)
		p.state = StJustInData
	case KindFrameCode:
		p.openFrame(t)
		p.state = StJustInSave
	case KindLoop:
		p.startLoop(t)
		p.state = StJustInLoop
	case KindName:
		p.beginSingle(t, false)
		p.state = StInName
	default:
		p.unexpected(t)
	}
}

func (p *parserState) openFrame(t Token) {
	name := p.opts.CaseNormalization.apply(t.Text)
	if name == "" {
		p.addErr(ErrFrameCodeEmpty, t, "")
	} else if prior, ok := p.frames[name]; ok {
		p.addDupErr(ErrFrameCodeDuplicate, t, prior, name)
	} else {
		p.frames[name] = t
	}
	p.frame = name
	p.frameToken = t
	p.names = map[string]Token{}
}

// -- JustInSave / InSave (save-frame context, no loop open) -------------

func (p *parserState) stepInSave(t Token) {
	switch t.Kind {
	case KindFrameEnd:
		p.frame = ""
		p.names = map[string]Token{}
		p.state = StInData
	case KindLoop:
		p.startLoop(t)
		p.state = StJustInSaveLoop
	case KindName:
		p.beginSingle(t, true)
		p.state = StInSaveName
	default:
		p.unexpected(t)
	}
}

// -- single-item name/value (InName/InSaveName) -------------------------

func (p *parserState) beginSingle(t Token, inFrame bool) {
	p.checkNameDup(t)
	p.pendingName = t
}

func (p *parserState) stepInName(t Token, inFrame bool) {
	if t.Kind.IsValue() {
		p.emitRow(p.pendingName, []string{t.Text}, 0)
		if inFrame {
			p.state = StInSave
		} else {
			p.state = StInData
		}
		return
	}
	p.unexpected(t)
}

// -- loop header (JustInLoop/JustInSaveLoop, InLoopName/InSaveLoopName) --

func (p *parserState) startLoop(t Token) {
	if !strings.EqualFold(t.Text, "loop_") {
		p.addErr(ErrLoopNamed, t, "loop_ header must not be followed by non-whitespace")
	}
	p.loop = &loopAccum{id: p.nextLoopID, headerAt: t}
	p.nextLoopID++
}

func (p *parserState) stepJustInLoop(t Token) {
	if t.Kind == KindName {
		p.addLoopColumn(t)
		p.state = StInLoopName
		return
	}
	p.unexpected(t)
	p.loop = nil
	p.state = StInData
}

func (p *parserState) stepJustInSaveLoop(t Token) {
	if t.Kind == KindName {
		p.addLoopColumn(t)
		p.state = StInSaveLoopName
		return
	}
	p.unexpected(t)
	p.loop = nil
	p.state = StInSave
}

func (p *parserState) addLoopColumn(t Token) {
	p.checkNameDup(t)
	p.loop.cols = append(p.loop.cols, t)
	p.loop.values = append(p.loop.values, nil)
}

func (p *parserState) stepInLoopName(t Token, inFrame bool) {
	switch {
	case t.Kind == KindName:
		p.addLoopColumn(t)
	case t.Kind.IsValue():
		p.loop.values[0] = append(p.loop.values[0], t.Text)
		p.loop.count++
		if inFrame {
			p.state = StInSaveLoopValue
		} else {
			p.state = StInLoopValue
		}
	default:
		p.unexpected(t)
	}
}

func (p *parserState) stepInLoopValue(t Token, inFrame bool) {
	if t.Kind.IsValue() {
		col := p.loop.count % len(p.loop.cols)
		p.loop.values[col] = append(p.loop.values[col], t.Text)
		p.loop.count++
		return
	}
	p.finalizeLoop()
	if inFrame {
		p.state = StInSave
	} else {
		p.state = StInData
	}
	// Re-dispatch the triggering token against the now-closed state so a
	// single token both ends the loop and is acted upon (open a new
	// block/frame/loop/item, or recorded as unexpected).
	p.step(t)
}

func (p *parserState) finalizeLoop() {
	lp := p.loop
	p.loop = nil
	if lp == nil || len(lp.cols) == 0 {
		return
	}
	if lp.count%len(lp.cols) != 0 {
		p.addErr(ErrTableIncomplete, lp.headerAt, fmt.Sprintf(
			"%d values is not a multiple of %d columns", lp.count, len(lp.cols)))
	}
	for i, colTok := range lp.cols {
		p.emitRow(colTok, lp.values[i], lp.id)
	}
}

// -- row construction ----------------------------------------------------

func (p *parserState) checkNameDup(t Token) {
	key := p.opts.CaseNormalization.apply(t.Text)
	if prior, ok := p.names[key]; ok {
		p.addDupErr(ErrDataNameDuplicate, t, prior, key)
		return
	}
	p.names[key] = t
}

func (p *parserState) emitRow(nameTok Token, values []string, loopID int) {
	raw := p.opts.CaseNormalization.apply(nameTok.Text)
	category, keyword := p.splitName(raw, nameTok, loopID)
	row := &FlatRow{
		BlockCode: p.block,
		HasFrame:  p.frame != "",
		FrameCode: p.frame,
		Category:  category,
		Keyword:   keyword,
		Values:    values,
		LoopID:    loopID,
	}
	p.table.Rows = append(p.table.Rows, row)
}

// splitName implements the mmCIF vs CIF 1.1 name-splitting rule of
// spec.md §4.B, including the synthetic CIF 1.1 category scheme resolved
// as DESIGN.md's OQ-1.
func (p *parserState) splitName(raw string, nameTok Token, loopID int) (category, keyword string) {
	if p.opts.Variant == VariantCIF1 {
		if loopID > 0 {
			return "#" + strconv.Itoa(loopID), raw
		}
		return raw, raw
	}
	idx := strings.IndexByte(raw, '.')
	switch {
	case idx < 0:
		p.addErr(ErrDataNameMissingCategory, nameTok, raw)
		return raw, raw
	case idx == 0:
		p.addErr(ErrDataNameEmpty, nameTok, raw)
		return "", raw[1:]
	default:
		return raw[:idx], raw[idx+1:]
	}
}

// -- EOF policy ----------------------------------------------------------

func (p *parserState) atEOF() {
	switch p.state {
	case StInLoopValue:
		p.finalizeLoop()
		p.state = StInData
	case StInSaveLoopValue:
		p.finalizeLoop()
		p.state = StInSave
	}
	switch p.state {
	case StInFile, StInData, StInSave:
		return
	default:
		last := p.cur()
		p.addErr(ErrFileIncomplete, last, "unexpected EOF in state "+p.state.String())
	}
}
