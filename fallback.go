package aipoet

import "strings"

// runesPerLine approximates how many characters one requested line costs
// when trimming a fallback poem.
const runesPerLine = 20

var fallbackTemplates = map[Quadrant]struct {
	edition string
	lines   []string
}{
	QuadrantPrecise: {"严谨版", []string{
		"春风吹绿江南岸，花开满园映日红。",
		"柳絮轻扬如雪舞，燕语莺啼入画中。",
		"",
		"碧水潺潺绕村过，青山隐隐映晴空。",
		"万物复苏生机旺，人间四月正葱茏。",
	}},
	QuadrantStandard: {"规范版", []string{
		"春天悄然而至，大地披上新装，",
		"花朵争相绽放，鸟儿欢快歌唱。",
		"",
		"微风轻抚面庞，带来温暖气息，",
		"阳光洒满大地，万物焕发生机。",
	}},
	QuadrantCreative: {"创意版", []string{
		"春天是位画家，泼洒绿意于大地，",
		"用阳光的笔触，点染花朵的笑靥。",
		"",
		"微风是她的低语，唤醒沉睡的种子，",
		"细雨是她的泪珠，滋润干渴的泥土。",
	}},
	QuadrantFree: {"自由版", []string{
		"啊！春之女神舞动她的裙摆，",
		"万物在韵律中苏醒、绽放！",
		"",
		"冬的桎梏已被打破，",
		"生命在每一片新叶上歌唱！",
	}},
}

// FallbackPoem returns the canned poem for the quadrant of (temperature,
// topP), titled with theme and cut to about length lines' worth of runes.
// It is pure: equal inputs give equal output.
func FallbackPoem(theme string, temperature, topP float64, length int) string {
	tpl := fallbackTemplates[QuadrantOf(temperature, topP)]

	var b strings.Builder
	b.WriteString("【")
	b.WriteString(theme)
	b.WriteString("·")
	b.WriteString(tpl.edition)
	b.WriteString("】\n")
	b.WriteString(strings.Join(tpl.lines, "\n"))

	return truncateRunes(b.String(), length*runesPerLine)
}
