package features

// numValidTargets gives, per piece (color*8+kind encoding), how many
// attacker/victim type pairings Full_Threats distinguishes for that
// attacker, friendly and enemy victims counted separately: twice the
// number of valid victim kinds in the attacker's threatMap row (pawn 3,
// knight and queen all 6, bishop and rook 5, king 4).
var numValidTargets = [pieceCount]int{
	0, 6, 12, 10, 10, 12, 8, 0,
	0, 6, 12, 10, 10, 12, 8, 0,
}

// threatMap[attackerType-1][victimType-1] gives the victim's slot within an
// attacker's half of the threats range, or -1 if that attacker/victim
// pairing never produces a feature (e.g. a bishop or rook attacking a
// queen, or a pawn attacking a bishop, queen or king).
var threatMap = [6][6]int{
	{0, 1, -1, 2, -1, -1}, // Pawn attacking P N B R Q K
	{0, 1, 2, 3, 4, 5},    // Knight
	{0, 1, 2, 3, -1, 4},   // Bishop
	{0, 1, 2, 3, -1, 4},   // Rook
	{0, 1, 2, 3, 4, 5},    // Queen
	{0, 1, 2, 3, -1, -1},  // King
}
