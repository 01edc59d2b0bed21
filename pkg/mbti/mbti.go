// Package mbti holds the personality-type recommendation tables shown next to
// the dashboard: two careers for every type, and book and movie picks for the
// types that have them.
package mbti

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/rampboard/pkg/errors"
)

// Pick is a recommended book or movie with a one-line reason.
type Pick struct {
	Title string `json:"title"`
	Blurb string `json:"blurb"`
}

// Profile is everything known about one type.
type Profile struct {
	Type    string   `json:"type"`
	Careers []string `json:"careers"`
	Books   []Pick   `json:"books,omitempty"`
	Movies  []Pick   `json:"movies,omitempty"`
}

// Pitch is the one-line career suggestion for p.
func (p Profile) Pitch() string {
	return fmt.Sprintf("✨ %s 그리고 %s 어때? 😄", p.Careers[0], p.Careers[1])
}

var profiles = []Profile{
	{Type: "ISTJ", Careers: []string{"공무원 🧾", "회계사 💼"}},
	{Type: "ISFJ", Careers: []string{"간호사 🏥", "교사 🍎"}},
	{Type: "INFJ", Careers: []string{"상담사 💬", "작가 ✍️"}},
	{
		Type:    "INTJ",
		Careers: []string{"연구원 🔬", "전략가 ♟️"},
		Books: []Pick{
			{"달러구트 꿈 백화점", "차분하고 사색적인 너에게 어울리는 따뜻한 판타지 💭"},
			{"아몬드", "감정의 본질을 탐구하는 이야기가 딱 너 스타일 😌"},
		},
		Movies: []Pick{
			{"인터스텔라", "논리와 철학이 동시에 녹아있는 SF 명작 🚀"},
			{"셜록 홈즈", "지적인 추리를 즐기는 INTJ에게 찰떡 🕵️‍♂️"},
		},
	},
	{Type: "ISTP", Careers: []string{"기계공 🧰", "경찰 👮‍♂️"}},
	{Type: "ISFP", Careers: []string{"디자이너 🎨", "요리사 👨‍🍳"}},
	{
		Type:    "INFP",
		Careers: []string{"심리상담가 💭", "작사가 🎵"},
		Books: []Pick{
			{"82년생 김지영", "공감력 만렙 INFP의 마음을 울릴 현실 이야기 💔"},
			{"죽은 시인의 사회", "이상과 자유를 사랑하는 너에게 딱이야 🌸"},
		},
		Movies: []Pick{
			{"라라랜드", "꿈과 사랑 사이에서 고민해 본 너에게 🎶"},
		},
	},
	{Type: "INTP", Careers: []string{"프로그래머 💻", "교수 🎓"}},
	{Type: "ESTP", Careers: []string{"마케터 📢", "기업가 💸"}},
	{Type: "ESFP", Careers: []string{"배우 🎭", "유튜버 🎥"}},
	{Type: "ENFP", Careers: []string{"기획자 📋", "작가 ✨"}},
	{Type: "ENTP", Careers: []string{"창업가 🚀", "광고기획자 🎯"}},
	{Type: "ESTJ", Careers: []string{"경영자 💼", "군인 🪖"}},
	{Type: "ESFJ", Careers: []string{"교사 📚", "간호사 💉"}},
	{Type: "ENFJ", Careers: []string{"강사 🎤", "상담가 💌"}},
	{Type: "ENTJ", Careers: []string{"CEO 🏢", "정치가 🏛️"}},
}

// Types returns the sixteen type codes in display order.
func Types() []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.Type
	}
	return out
}

// All returns every profile in display order. The result shares nothing
// with the package tables.
func All() []Profile {
	out := make([]Profile, len(profiles))
	for i, p := range profiles {
		out[i] = p.clone()
	}
	return out
}

// Lookup returns the profile for code. Case and surrounding space are
// ignored; an unknown code fails with NOT_FOUND.
func Lookup(code string) (Profile, error) {
	want := strings.ToUpper(strings.TrimSpace(code))
	i := slices.IndexFunc(profiles, func(p Profile) bool { return p.Type == want })
	if i < 0 {
		return Profile{}, errors.New(errors.ErrCodeNotFound, "unknown MBTI type %q (one of %s)",
			code, strings.Join(Types(), ", "))
	}
	return profiles[i].clone(), nil
}

func (p Profile) clone() Profile {
	p.Careers = slices.Clone(p.Careers)
	p.Books = slices.Clone(p.Books)
	p.Movies = slices.Clone(p.Movies)
	return p
}
