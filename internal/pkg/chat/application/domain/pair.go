package chat

// PairKey canonicalizes an unordered pair of user ids. It backs the
// uniqueness guarantee of one chat per pair.
func PairKey(a, b string) string {
	first, second := orderPair(a, b)
	return first + ":" + second
}

func orderPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
