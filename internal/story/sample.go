package story

// Sample returns a small demo story with two threads whose beats are spread
// over four chapters.
func Sample() *Story {
	const (
		intro       ID = "sample-chapter-intro"
		montage     ID = "sample-chapter-montage"
		baseball    ID = "sample-chapter-baseball"
		competition ID = "sample-chapter-competition"
		cooking     ID = "sample-thread-cooking"
		dad         ID = "sample-thread-dad"
	)
	s, err := NewBuilder("Eddie's Million Dollar Cook-Off").
		Chapter(intro, "Introduction").
		Chapter(montage, "Cooking Montage").
		Chapter(baseball, "Baseball Championship Game").
		Chapter(competition, "Cooking Competition").
		Thread(cooking, "Eddie improves at cooking", "#FF5F5F").
		Beat(cooking, "", "Eddie learns about the Bobby Flay competition, then eats pancakes. The pancakes are delicious, and nobody needs to be convinced of how good pancakes are.", intro).
		Beat(cooking, "", "Eddie cooks a bunch of things in a montage", montage).
		Beat(cooking, "", "Eddie wins the tournament", competition).
		Thread(dad, "Eddie's relationship with his dad", "#5FAF5F").
		Beat(dad, "", "Eddie's dad disapproves of the Bobby Flay competition", intro).
		Beat(dad, "", "Eddie leaves the baseball game to go to the cooking competition", baseball).
		Beat(dad, "", "Eddie's dad helps him crack eggs at the competition", competition).
		Build()
	if err != nil {
		panic(err)
	}
	return s
}
