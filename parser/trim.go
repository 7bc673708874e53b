package parser

// trimStandAlone resolves a freshly produced StaticText node's own left
// edge: if its content's prefix up to the first newline is a trim
// candidate, walk backwards through node.Prev to see whether that prefix
// actually abuts a line boundary with nothing but whitespace/standalone
// tags in between. Non-StaticText nodes have no left_trimming and this is a
// no-op for them.
func trimStandAlone(node *Node) {
	if node.Type != BlockStaticText || node.Part.LeftTrim.Kind != AllowTrimming {
		return
	}
	if ok, _ := trimPreviousNodesRight(node.Prev); ok {
		node.Part.trimLeft()
	} else {
		node.Part.LeftTrim = Trim{Kind: PreserveWhitespaces}
	}
}

// trimPreviousNodesRight walks backwards from prev, deciding whether the
// whitespace immediately preceding the node that triggered this call
// reaches all the way to a line boundary. It returns whether the chain
// resolved to a standalone boundary and, if so, the indentation span that
// was trimmed off the resolving StaticText node's right edge (propagated
// outward so an intervening tag, e.g. a Partial, can record it).
//
// A nil prev means the template's own start, which counts as a boundary.
// A non-StaticText node that cannot stand alone (an interpolation) breaks
// the chain immediately: several standalone tags separated by an
// interpolation on one line must not be treated as standalone.
func trimPreviousNodesRight(prev *Node) (bool, []byte) {
	if prev == nil {
		return true, nil
	}

	if prev.Type != BlockStaticText {
		if !prev.Type.canBeStandAlone() {
			return false, nil
		}
		ok, indent := trimPreviousNodesRight(prev.Prev)
		if ok {
			prev.IsStandAlone = true
			prev.Indentation = indent
		}
		return ok, indent
	}

	rt := prev.Part.RightTrim
	if rt.Kind == Trimmed {
		return true, prev.Part.Indentation
	}
	if rt.Kind != AllowTrimming {
		return false, nil
	}

	ok := rt.StandAlone
	if !ok {
		ok, _ = trimPreviousNodesRight(prev.Prev)
	}
	if !ok {
		prev.Part.RightTrim = Trim{Kind: PreserveWhitespaces}
		prev.Part.Indentation = nil
		return false, nil
	}
	prev.Part.trimRight()
	return true, prev.Part.Indentation
}

// trimLast runs once, after the scanner reaches end-of-input: it walks
// forward from the last StaticText node produced through whatever tag
// nodes followed it at the same level, and if every one of them can stand
// alone, trims that StaticText's own right edge -- the forward-looking
// counterpart to trimPreviousNodesRight, needed because nothing after the
// last static run is ever going to trigger the usual backward walk.
func trimLast(lastStatic *Node, trailing []*Node) {
	if lastStatic == nil || lastStatic.Type != BlockStaticText {
		return
	}
	if lastStatic.Part.RightTrim.Kind != AllowTrimming {
		return
	}
	for _, n := range trailing {
		if !n.Type.canBeStandAlone() {
			lastStatic.Part.RightTrim = Trim{Kind: PreserveWhitespaces}
			return
		}
	}
	lastStatic.Part.trimRight()
	for _, n := range trailing {
		n.IsStandAlone = true
		n.Indentation = lastStatic.Part.Indentation
	}
}
