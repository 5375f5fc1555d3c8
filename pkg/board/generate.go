package board

// MaxMoves bounds the number of pseudo-legal moves any reachable chess position can have,
// with slack. Callers may use it to size a reusable move buffer.
const MaxMoves = 226

var promotionPieces = [4]Piece{Queen, Rook, Bishop, Knight}

// Generate appends pseudo-legal moves to into and returns the new length. Moves may leave
// the mover's own king in check; callers apply the move and check InCheck to filter those
// out. Order: pawns, king, knights, rooks, queens (all eight rays), bishops. When
// capturesOnly is set, only captures, en-passant captures and promotions (capturing or
// not) are produced.
func (p *Position) Generate(into []Move, capturesOnly bool) []Move {
	side := p.turn
	opp := side.Opponent()
	own := p.occupancy[side]
	enemy := p.occupancy[opp]
	combined := own | enemy

	into = p.generatePawnMoves(into, side, enemy, combined, capturesOnly)
	into = p.generateKingMoves(into, side, combined, capturesOnly)
	into = p.generateOfficerMoves(into, side, Knight, own, enemy, combined, capturesOnly)
	into = p.generateOfficerMoves(into, side, Rook, own, enemy, combined, capturesOnly)
	into = p.generateOfficerMoves(into, side, Queen, own, enemy, combined, capturesOnly)
	into = p.generateOfficerMoves(into, side, Bishop, own, enemy, combined, capturesOnly)
	return into
}

func (p *Position) generatePawnMoves(into []Move, side Color, enemy, combined Bitboard, capturesOnly bool) []Move {
	bb := p.pieces[side][Pawn]
	epSq, hasEP := p.EnPassant()

	var startRank, promoRank Rank
	var forward int
	if side == White {
		startRank, promoRank, forward = Rank2, Rank8, 1
	} else {
		startRank, promoRank, forward = Rank7, Rank1, -1
	}

	for bb != 0 {
		from := bb.PopSquare()
		bb &= bb - 1

		oneUp := NewSquare(from.File(), Rank(int(from.Rank())+forward))
		if !combined.IsSet(oneUp) {
			promotes := oneUp.Rank() == promoRank
			if !capturesOnly || promotes {
				into = appendPawnMove(into, from, oneUp, promotes, false)
			}
			if !capturesOnly && from.Rank() == startRank {
				twoUp := NewSquare(from.File(), Rank(int(from.Rank())+2*forward))
				if !combined.IsSet(twoUp) {
					into = append(into, Move{From: from, To: twoUp})
				}
			}
		}

		attacks := PawnAttackboard(side, from)
		captures := attacks & enemy
		for captures != 0 {
			to := captures.PopSquare()
			captures &= captures - 1
			into = appendPawnMove(into, from, to, to.Rank() == promoRank, true)
		}

		if hasEP && attacks.IsSet(epSq) {
			into = append(into, Move{From: from, To: epSq, IsCapture: true, IsEnPassant: true})
		}
	}
	return into
}

func appendPawnMove(into []Move, from, to Square, promotes, isCapture bool) []Move {
	if promotes {
		for _, promo := range promotionPieces {
			into = append(into, Move{From: from, To: to, Promotion: promo, IsPromotion: true, IsCapture: isCapture})
		}
		return into
	}
	return append(into, Move{From: from, To: to, IsCapture: isCapture})
}

func (p *Position) generateKingMoves(into []Move, side Color, combined Bitboard, capturesOnly bool) []Move {
	bb := p.pieces[side][King]
	if bb == 0 {
		return into
	}
	from := bb.PopSquare()
	opp := side.Opponent()
	own := p.occupancy[side]

	targets := KingAttackboard(from) &^ own
	if capturesOnly {
		targets &= p.occupancy[opp]
	}
	for targets != 0 {
		to := targets.PopSquare()
		targets &= targets - 1
		into = append(into, Move{From: from, To: to, IsCapture: p.occupancy[opp].IsSet(to)})
	}

	if capturesOnly {
		return into
	}

	kingHome, _, _ := castlingHomeSquares(side)
	if from != kingHome {
		return into
	}

	rank := from.Rank()
	if p.castling.Short(side) {
		f := NewSquare(FileF, rank)
		g := NewSquare(FileG, rank)
		if !combined.IsSet(f) && !combined.IsSet(g) &&
			!p.IsAttacked(side, from) && !p.IsAttacked(side, f) && !p.IsAttacked(side, g) {
			into = append(into, Move{From: from, To: g, IsCastle: true})
		}
	}
	if p.castling.Long(side) {
		d := NewSquare(FileD, rank)
		c := NewSquare(FileC, rank)
		b := NewSquare(FileB, rank)
		if !combined.IsSet(d) && !combined.IsSet(c) && !combined.IsSet(b) &&
			!p.IsAttacked(side, from) && !p.IsAttacked(side, d) && !p.IsAttacked(side, c) {
			into = append(into, Move{From: from, To: c, IsCastle: true})
		}
	}
	return into
}

func (p *Position) generateOfficerMoves(into []Move, side Color, piece Piece, own, enemy, combined Bitboard, capturesOnly bool) []Move {
	bb := p.pieces[side][piece]
	for bb != 0 {
		from := bb.PopSquare()
		bb &= bb - 1

		targets := Attackboard(combined, from, piece) &^ own
		if capturesOnly {
			targets &= enemy
		}
		for targets != 0 {
			to := targets.PopSquare()
			targets &= targets - 1
			into = append(into, Move{From: from, To: to, IsCapture: enemy.IsSet(to)})
		}
	}
	return into
}
