package leaderboard_test

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mauv0809/tierboard/internal/leaderboard"
	"github.com/mauv0809/tierboard/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderClassic_Example(t *testing.T) {
	players := []leaderboard.Player{
		{Name: "Ann", Rank: "S High"},
		{Name: "Bob", Rank: "A Mid", RobloxLink: "http://x"},
	}

	got := leaderboard.Render(leaderboard.Classic, players)

	want := "# S Tier :STier:\n-# High\n## 1 - Ann\n\n# A Tier :MidTier:\n-# Mid\n## 2 - [Bob](http://x)\n\n"
	assert.Equal(t, want, got)
}

func TestRenderFFA_Example(t *testing.T) {
	players := []leaderboard.Player{{Name: "Zed", Stars: 4.5}}

	text := leaderboard.Render(leaderboard.FFA, players)
	assert.Equal(t, "# 4.5 Stars :4pt5_star:\n## 1 - Zed\n\n", text)

	parsed := leaderboard.Parse(text, leaderboard.FFA)
	want := []leaderboard.Player{{Name: "Zed", Stars: 4.5, Position: 1, RobloxLink: ""}}
	if diff := cmp.Diff(want, parsed); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseClassic_LegacyEmojiLine(t *testing.T) {
	text := "# S Tier :STier:\n-# High\n## 3 - :STier: [Cid](http://y)\n## 4 - :STier: Dee\n"

	got := leaderboard.Parse(text, leaderboard.Classic)

	want := []leaderboard.Player{
		{Name: "Cid", Position: 3, Rank: "S High", RobloxLink: "http://y"},
		{Name: "Dee", Position: 4, Rank: "S High", RobloxLink: ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

// The FFA importer deliberately does not understand the emoji-prefixed line
// form that the classic importer accepts.
func TestParseFFA_LegacyEmojiLineIsNotSupported(t *testing.T) {
	text := "# 4.5 Stars :4pt5_star:\n## 1 - :4pt5_star: Zed\n## 2 - :4pt5_star: [Yan](http://y)\n## 3 - :4pt5_star:\n"

	got := leaderboard.Parse(text, leaderboard.FFA)
	assert.Empty(t, got)
}

func TestParseClassic_SingleHeadingRanks(t *testing.T) {
	t.Run("sub-band only", func(t *testing.T) {
		got := leaderboard.Parse("-# High\n## 1 - [Ann](http://a)", leaderboard.Classic)
		require.Len(t, got, 1)
		assert.Equal(t, "High", got[0].Rank)
	})

	t.Run("tier only", func(t *testing.T) {
		got := leaderboard.Parse("# A+ Tier :HighTier:\n## 2 - Bob", leaderboard.Classic)
		require.Len(t, got, 1)
		assert.Equal(t, "A+", got[0].Rank)
		assert.Equal(t, 2, got[0].Position)
	})

	t.Run("no heading yet", func(t *testing.T) {
		got := leaderboard.Parse("## 1 - Ann\n## 2 - [Bob](http://b)", leaderboard.Classic)
		assert.Empty(t, got)
	})

	t.Run("tier heading keeps sub-band", func(t *testing.T) {
		text := "# S Tier :STier:\n-# Low\n## 1 - Ann\n# A- Tier :LowTier:\n## 2 - Bob"
		got := leaderboard.Parse(text, leaderboard.Classic)
		require.Len(t, got, 2)
		assert.Equal(t, "S Low", got[0].Rank)
		assert.Equal(t, "A- Low", got[1].Rank)
	})
}

func TestParse_ToleratesGarbage(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"hello world",
		"## not a player",
		"## - [Ann](http://a)",
		"# Stars",
		"---",
		"## 99999999999999999999999 - Ann",
		"# 4.5 Stars :4pt5_star:\n## 1 - :4pt5_star:\n",
		"# S Tier :STier:\n-# High\n## 5 - :STier:\n",
	}
	for _, in := range inputs {
		assert.Empty(t, leaderboard.Parse(in, leaderboard.Classic), "classic %q", in)
		assert.Empty(t, leaderboard.Parse(in, leaderboard.FFA), "ffa %q", in)
	}
	assert.Nil(t, leaderboard.Parse("# S Tier\n## 1 - Ann", leaderboard.Kind("other")))
}

func TestParseFFA_Rules(t *testing.T) {
	text := strings.Join([]string{
		"## 1 - [Early](http://e)",
		"# 3 Stars :3_star:",
		"## 0 - [Zero](http://z)",
		"## 2 - [Ok](http://ok)",
		"-# High",
		"## 3 - Bare",
		"# 0.5 Stars :0pt5_star:",
		"  ## 4 - [Low](http://l)  ",
	}, "\r\n")

	got := leaderboard.Parse(text, leaderboard.FFA)

	want := []leaderboard.Player{
		{Name: "Ok", Position: 2, Stars: 3, RobloxLink: "http://ok"},
		{Name: "Bare", Position: 3, Stars: 3},
		{Name: "Low", Position: 4, Stars: 0.5, RobloxLink: "http://l"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseClassic_NameContainingTier(t *testing.T) {
	text := "# B+ Tier :LowTier:\n-# Mid\n## 7 - [TierMaster](http://t)\n"
	got := leaderboard.Parse(text, leaderboard.Classic)
	require.Len(t, got, 1)
	assert.Equal(t, "TierMaster", got[0].Name)
	assert.Equal(t, "B+ Mid", got[0].Rank)
}

func TestGroupClassic_OrderAndDrops(t *testing.T) {
	players := []leaderboard.Player{
		{Name: "p1", Rank: "B+ Low"},
		{Name: "p2", Rank: "S Low"},
		{Name: "p3", Rank: "Legend"},
		{Name: "p4", Rank: "A- Mid", Position: 40},
		{Name: "p5", Rank: "A+ High"},
		{Name: "p6", Rank: "S High"},
		{Name: "p7", Rank: "A High"},
	}

	buckets, dropped := leaderboard.GroupClassic(players)

	assert.Equal(t, 1, dropped)
	var tiers []rating.Tier
	for _, b := range buckets {
		tiers = append(tiers, b.Tier)
	}
	assert.Equal(t, []rating.Tier{rating.TierS, rating.TierAPlus, rating.TierA, rating.TierAMinus, rating.TierBPlus}, tiers)

	s := buckets[0]
	require.Len(t, s.Bands, 2)
	assert.Equal(t, rating.SubBandHigh, s.Bands[0].Band)
	assert.Equal(t, "p6", s.Bands[0].Players[0].Name)
	assert.Equal(t, 6, s.Bands[0].Players[0].Position)
	assert.Equal(t, rating.SubBandLow, s.Bands[1].Band)
	assert.Equal(t, 2, s.Bands[1].Players[0].Position)

	assert.Equal(t, 40, buckets[3].Bands[0].Players[0].Position)

	text := leaderboard.Render(leaderboard.Classic, players)
	assert.NotContains(t, text, "p3")
	assert.Less(t, strings.Index(text, "# S Tier"), strings.Index(text, "# A+ Tier"))
	assert.Less(t, strings.Index(text, "# A Tier"), strings.Index(text, "# A- Tier"))
	assert.Less(t, strings.Index(text, "# A- Tier"), strings.Index(text, "# B+ Tier"))
}

func TestGroupFFA_OrderAndUnknownValues(t *testing.T) {
	players := []leaderboard.Player{
		{Name: "a", Stars: 1},
		{Name: "b", Stars: 4.25},
		{Name: "c", Stars: 5},
		{Name: "d", Stars: 1},
		{Name: "e", Stars: 4.5},
	}

	buckets := leaderboard.GroupFFA(players)

	var values []float64
	for _, b := range buckets {
		values = append(values, b.Stars)
	}
	assert.Equal(t, []float64{5, 4.5, 4.25, 1}, values)
	assert.Len(t, buckets[3].Players, 2)
	assert.Equal(t, 4, buckets[3].Players[1].Position)

	text := leaderboard.Render(leaderboard.FFA, players)
	assert.Contains(t, text, "# 5 Stars :5_star:\n## 3 - c\n\n")
	assert.Contains(t, text, "# 4.25 Stars "+rating.FallbackStarEmoji+"\n## 2 - b\n\n")
}

func TestTextLen(t *testing.T) {
	assert.Equal(t, 0, leaderboard.TextLen(""))
	assert.Equal(t, 5, leaderboard.TextLen("hello"))
	assert.Equal(t, 3, leaderboard.TextLen("⭐é\n"))
	assert.Equal(t, 4, leaderboard.TextLen("😀a!"))
}

func TestChunk(t *testing.T) {
	t.Run("packs until the budget is exceeded", func(t *testing.T) {
		blocks := []string{"aaaa\n\n", "bbbb\n\n", "cccccc\n\n"}
		got := leaderboard.Chunk(blocks, 12)
		assert.Equal(t, []string{"aaaa\n\nbbbb", "cccccc"}, got)
	})

	t.Run("exact fit stays in one message", func(t *testing.T) {
		got := leaderboard.Chunk([]string{"aaaa\n\n", "bb\n\n"}, 10)
		assert.Equal(t, []string{"aaaa\n\nbb"}, got)
	})

	t.Run("oversize block is emitted alone", func(t *testing.T) {
		big := strings.Repeat("x", 30) + "\n\n"
		got := leaderboard.Chunk([]string{"a\n\n", big, "b\n\n"}, 10)
		assert.Equal(t, []string{"a", strings.Repeat("x", 30), "b"}, got)
	})

	t.Run("no blocks", func(t *testing.T) {
		assert.Empty(t, leaderboard.Chunk(nil, 10))
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		block := "⭐⭐⭐\n\n"
		got := leaderboard.Chunk([]string{block, block}, 10)
		assert.Len(t, got, 1)
	})

	t.Run("characters outside the BMP count twice", func(t *testing.T) {
		block := "😀😀\n\n"
		got := leaderboard.Chunk([]string{block, block}, 10)
		assert.Equal(t, []string{"😀😀", "😀😀"}, got)
	})

	t.Run("non-positive budget uses the default", func(t *testing.T) {
		blocks := []string{strings.Repeat("a", 1000) + "\n\n", strings.Repeat("b", 895) + "\n\n", "c\n\n"}
		got := leaderboard.Chunk(blocks, 0)
		require.Len(t, got, 2)
	})
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "one\n\n---\n\ntwo", leaderboard.Join([]string{"one", "two"}))
	assert.Equal(t, "", leaderboard.Join(nil))
}

// samplePlayers builds n players spread over every rank and star value, with
// explicit positions and a link on every other player.
func samplePlayers(n int) []leaderboard.Player {
	ranks := rating.RankLabels()
	players := make([]leaderboard.Player, 0, n)
	for i := 0; i < n; i++ {
		p := leaderboard.Player{
			Name:     fmt.Sprintf("Player %03d", i),
			Position: i + 1,
			Rank:     ranks[(i*7)%len(ranks)],
			Stars:    rating.StarSteps[(i*3)%len(rating.StarSteps)].Float(),
		}
		if i%2 == 0 {
			p.RobloxLink = fmt.Sprintf("https://www.roblox.com/users/%d/profile", 1000+i)
		}
		players = append(players, p)
	}
	return players
}

func sortByName(players []leaderboard.Player) {
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })
}

func TestRoundTrip(t *testing.T) {
	players := samplePlayers(120)

	t.Run("classic", func(t *testing.T) {
		res := leaderboard.Export(leaderboard.Classic, players, 400)
		require.Greater(t, len(res.Messages), 1, "expected the export to need several messages")
		assert.Zero(t, res.Dropped)

		got := leaderboard.Parse(res.Text(), leaderboard.Classic)

		want := make([]leaderboard.Player, 0, len(players))
		for _, p := range players {
			want = append(want, leaderboard.Player{Name: p.Name, Position: p.Position, Rank: p.Rank, RobloxLink: p.RobloxLink})
		}
		sortByName(want)
		sortByName(got)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ffa", func(t *testing.T) {
		res := leaderboard.Export(leaderboard.FFA, players, 400)
		require.Greater(t, len(res.Messages), 1)

		got := leaderboard.Parse(res.Text(), leaderboard.FFA)

		want := make([]leaderboard.Player, 0, len(players))
		for _, p := range players {
			want = append(want, leaderboard.Player{Name: p.Name, Position: p.Position, Stars: p.Stars, RobloxLink: p.RobloxLink})
		}
		sortByName(want)
		sortByName(got)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestExport_ChunkBoundsAndNoSplitting(t *testing.T) {
	players := samplePlayers(200)

	for _, kind := range []leaderboard.Kind{leaderboard.Classic, leaderboard.FFA} {
		for _, budget := range []int{50, 300, 1900} {
			t.Run(fmt.Sprintf("%s/%d", kind, budget), func(t *testing.T) {
				var blocks []string
				if kind == leaderboard.Classic {
					blocks, _ = leaderboard.ClassicBlocks(players)
				} else {
					blocks = leaderboard.FFABlocks(players)
				}
				blockSizes := make(map[string]int)
				for _, b := range blocks {
					blockSizes[strings.TrimRight(b, "\n")] = leaderboard.TextLen(b)
				}

				res := leaderboard.Export(kind, players, budget)

				for _, msg := range res.Messages {
					if leaderboard.TextLen(msg) <= budget {
						continue
					}
					_, single := blockSizes[msg]
					assert.True(t, single, "over-budget message must be a single block")
				}

				joined := strings.Join(res.Messages, "\n\n") + "\n\n"
				assert.Equal(t, strings.Join(blocks, ""), joined)
			})
		}
	}
}

func TestRenderParse_Idempotent(t *testing.T) {
	players := samplePlayers(45)

	for _, kind := range []leaderboard.Kind{leaderboard.Classic, leaderboard.FFA} {
		t.Run(string(kind), func(t *testing.T) {
			text := leaderboard.Render(kind, players)
			again := leaderboard.Render(kind, leaderboard.Parse(text, kind))
			assert.Equal(t, text, again)
		})
	}
}

func TestRenderOverall(t *testing.T) {
	players := []leaderboard.Player{
		{Name: "Ann", Rank: "S High", Stars: 5, RobloxLink: "http://a", Position: 9},
		{Name: "Bob", Rank: "A- Low", Stars: 2.5},
	}

	got := leaderboard.RenderOverall(players)

	want := "# Overall Leaderboard\n\n" +
		"## 1 - [Ann](http://a) | :5_star: 5 Stars / :STier: S High\n" +
		"## 2 - Bob | :2pt5_star: 2.5 Stars / :LowTier: A- Low\n"
	assert.Equal(t, want, got)
}

func TestExportOverall_HeadingOnlyInFirstMessage(t *testing.T) {
	players := samplePlayers(60)

	msgs := leaderboard.ExportOverall(players, 500)

	require.Greater(t, len(msgs), 1)
	assert.True(t, strings.HasPrefix(msgs[0], "# Overall Leaderboard"))
	for _, m := range msgs[1:] {
		assert.True(t, strings.HasPrefix(m, "## "))
		assert.LessOrEqual(t, leaderboard.TextLen(m), 500)
	}
}

func TestParseKind(t *testing.T) {
	k, ok := leaderboard.ParseKind("ffa")
	assert.True(t, ok)
	assert.Equal(t, leaderboard.FFA, k)

	_, ok = leaderboard.ParseKind("overall")
	assert.False(t, ok)
}
