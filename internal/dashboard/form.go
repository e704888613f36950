package dashboard

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/minetrade-gg/minetrade-bot/internal/reactionrole"
)

// parsePairs collects the open-ended emoji_<i>/role_<i> form fields into
// an ordered pair list. A pair missing either side is silently dropped,
// matching what administrators expect from partially filled rows.
func parsePairs(form url.Values) []reactionrole.Pair {
	var indices []int
	for key := range form {
		idx, ok := strings.CutPrefix(key, "emoji_")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(idx)
		if err != nil {
			continue
		}
		indices = append(indices, n)
	}
	sort.Ints(indices)

	var pairs []reactionrole.Pair
	for _, n := range indices {
		emoji := strings.TrimSpace(form.Get("emoji_" + strconv.Itoa(n)))
		roleID := strings.TrimSpace(form.Get("role_" + strconv.Itoa(n)))
		if emoji == "" || roleID == "" {
			continue
		}
		pairs = append(pairs, reactionrole.Pair{Emoji: emoji, RoleID: roleID})
	}
	return pairs
}
