// Package stories holds the curated story table served by /api/stories.
// The table is compiled in: stories change only with a release.
package stories

// Story is one curated narrative from Islamic history.
type Story struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	TitleAr string `json:"titleAr"`
	Era     string `json:"era"`
	Summary string `json:"summary"`
	Body    string `json:"body"`
}

var stories = []Story{
	{
		ID:      "hijrah",
		Title:   "The Hijrah to Madinah",
		TitleAr: "الهجرة إلى المدينة",
		Era:     "622 CE",
		Summary: "The Prophet's migration from Makkah to Madinah, the event that marks year one of the Hijri calendar.",
		Body: "After thirteen years of calling to Islam in Makkah under growing persecution, " +
			"the Prophet Muhammad ﷺ was commanded to migrate to Yathrib, later named " +
			"al-Madinah al-Munawwarah. He left with Abu Bakr, hiding three nights in the " +
			"cave of Thawr while search parties passed overhead, then travelled the coastal " +
			"route north. The arrival in Madinah established the first Muslim community and " +
			"the brotherhood between the Muhajirun and the Ansar, and the year of the " +
			"journey became the epoch of the Islamic calendar.",
	},
	{
		ID:      "isra-miraj",
		Title:   "The Night Journey and Ascension",
		TitleAr: "الإسراء والمعراج",
		Era:     "circa 621 CE",
		Summary: "The journey from Makkah to Jerusalem and the ascension through the heavens in a single night.",
		Body: "In the year of sorrow, after the loss of Khadijah and Abu Talib, the Prophet ﷺ " +
			"was carried by night from the Sacred Mosque to al-Masjid al-Aqsa, where he led " +
			"the prophets in prayer, and then ascended through the heavens. It was on this " +
			"night that the five daily prayers were prescribed, which is why the story is " +
			"told whenever the prayer is taught.",
	},
	{
		ID:      "badr",
		Title:   "The Battle of Badr",
		TitleAr: "غزوة بدر",
		Era:     "2 AH / 624 CE",
		Summary: "The first decisive encounter between the young Muslim community and the Quraysh of Makkah.",
		Body: "Three hundred and thirteen believers, short of mounts and armour, met a " +
			"Makkan force nearly three times their size at the wells of Badr in Ramadan of " +
			"the second year after the Hijrah. The Qur'an calls it Yawm al-Furqan, the day " +
			"of the criterion, for the victory that followed secured the community in " +
			"Madinah and is remembered in Surah al-Anfal.",
	},
	{
		ID:      "conquest-makkah",
		Title:   "The Opening of Makkah",
		TitleAr: "فتح مكة",
		Era:     "8 AH / 630 CE",
		Summary: "The nearly bloodless return to Makkah and the general amnesty that followed.",
		Body: "Eight years after leaving his city in secret, the Prophet ﷺ returned at the " +
			"head of ten thousand and entered Makkah with his head lowered in humility. The " +
			"idols around the Ka'bah were removed, and to the people who had fought him for " +
			"two decades he said: go, for you are free. The amnesty of that day remains the " +
			"classic example of victory met with mercy.",
	},
	{
		ID:      "people-of-the-cave",
		Title:   "The People of the Cave",
		TitleAr: "أصحاب الكهف",
		Era:     "pre-Islamic",
		Summary: "The young believers who slept in a cave for centuries, told in Surah al-Kahf.",
		Body: "A group of young men fled a persecuting king to protect their faith and took " +
			"refuge in a cave, where God cast sleep over them for three hundred and nine " +
			"years. Their story, recited every Friday in Surah al-Kahf, is read as a lesson " +
			"on holding to belief when it is costly and on the ease of resurrection for " +
			"the One who woke them.",
	},
	{
		ID:      "prophet-yusuf",
		Title:   "The Story of Yusuf",
		TitleAr: "قصة يوسف",
		Era:     "pre-Islamic",
		Summary: "From the well to the treasury of Egypt: the most detailed single narrative in the Qur'an.",
		Body: "Betrayed by his brothers, sold into slavery, imprisoned on a false accusation, " +
			"Yusuf (peace be upon him) rose to administer the storehouses of Egypt and, " +
			"when his brothers stood before him in need, chose forgiveness: no blame lies " +
			"on you today. The Qur'an calls it the best of stories, and it is traditionally " +
			"read as consolation in hardship.",
	},
}

var byID = func() map[string]*Story {
	m := make(map[string]*Story, len(stories))
	for i := range stories {
		m[stories[i].ID] = &stories[i]
	}
	return m
}()

// All returns every story in curated order.
func All() []Story {
	return stories
}

// ByID returns the story with the given id, or false.
func ByID(id string) (*Story, bool) {
	s, ok := byID[id]
	return s, ok
}
