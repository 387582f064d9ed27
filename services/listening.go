package services

// ListeningTopic is one entry of the static listening catalog. Unlike
// speaking topics these are shared across learners and cycled by day number.
type ListeningTopic struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	AudioURL     string `json:"audio_url"`
	Conversation string `json:"conversation"`
}

// listeningTopics is the built-in catalog. Day N of a week serves entry
// (N-1) mod len.
var listeningTopics = []ListeningTopic{
	{
		ID:       1,
		Title:    "First Day at a New Job",
		Category: "Jobs and Workplace",
		AudioURL: "audios/1-first-day-at-a-new-job.wav",
		Conversation: "Sarah: Welcome to the team! How is your first day going?\n" +
			"Rafiq: Thanks, it's going well, though there's a lot to take in.\n" +
			"Sarah: That's normal. This week is just about getting settled and meeting everyone.\n" +
			"Rafiq: That's a relief. Is there anything I should read first?\n" +
			"Sarah: I've shared our onboarding folder with you. Go through it whenever you have downtime, and ask me anything.",
	},
	{
		ID:       2,
		Title:    "Discussing a Project Deadline",
		Category: "Jobs and Workplace",
		AudioURL: "audios/2-discussing-a-project-deadline.wav",
		Conversation: "Maria: Ben, do you have a minute to talk about the launch date?\n" +
			"Ben: Sure. I was actually going to flag that the design review is running late.\n" +
			"Maria: How late are we talking?\n" +
			"Ben: Two days, maybe three. We can still make the deadline if we start testing in parallel.\n" +
			"Maria: Okay, let's do that. I'll let the client know testing starts early.",
	},
	{
		ID:       3,
		Title:    "Ordering at a Restaurant",
		Category: "Daily Life",
		AudioURL: "audios/3-ordering-at-a-restaurant.wav",
		Conversation: "Waiter: Good evening! Are you ready to order?\n" +
			"Lena: Almost. What would you recommend for someone who likes spicy food?\n" +
			"Waiter: The grilled chicken with harissa is our most popular dish.\n" +
			"Lena: Perfect, I'll take that, and a sparkling water please.\n" +
			"Waiter: Excellent choice. It will be about fifteen minutes.",
	},
	{
		ID:       4,
		Title:    "Planning a Weekend Trip",
		Category: "Travel",
		AudioURL: "audios/4-planning-a-weekend-trip.wav",
		Conversation: "Tom: I found cheap train tickets to the coast for Saturday morning.\n" +
			"Ana: Saturday works. Should we book a place to stay or make it a day trip?\n" +
			"Tom: There's a guesthouse near the harbour with rooms left. One night?\n" +
			"Ana: One night is perfect. I'll pack light and bring my camera.\n" +
			"Tom: Great, I'll book everything tonight and send you the details.",
	},
	{
		ID:       5,
		Title:    "A Doctor's Appointment",
		Category: "Health",
		AudioURL: "audios/5-a-doctors-appointment.wav",
		Conversation: "Doctor: What brings you in today?\n" +
			"Omar: I've had a sore throat for about a week, and it's not improving.\n" +
			"Doctor: Any fever or trouble swallowing?\n" +
			"Omar: A slight fever in the evenings, nothing serious.\n" +
			"Doctor: Let's take a look. It's likely a mild infection, but I'll prescribe something to be safe.",
	},
	{
		ID:       6,
		Title:    "Negotiating a Phone Plan",
		Category: "Daily Life",
		AudioURL: "audios/6-negotiating-a-phone-plan.wav",
		Conversation: "Agent: You've been with us three years, so you qualify for the loyalty discount.\n" +
			"Priya: The thing is, your competitor offers twice the data for the same price.\n" +
			"Agent: I understand. I can match their data allowance and keep your current rate.\n" +
			"Priya: If you can also waive the upgrade fee, I'll stay.\n" +
			"Agent: Done. I'll apply both changes to your account today.",
	},
	{
		ID:       7,
		Title:    "Catching Up with an Old Friend",
		Category: "Social",
		AudioURL: "audios/7-catching-up-with-an-old-friend.wav",
		Conversation: "Nina: I can't believe it's been two years! You look great.\n" +
			"Leo: You too! I heard you moved abroad for work?\n" +
			"Nina: I did, to Lisbon. The first months were hard, but I love it now.\n" +
			"Leo: That's brave. I've been meaning to make a change like that myself.\n" +
			"Nina: You should. Come visit and I'll show you around, it might convince you.",
	},
}

// ListeningTopicForDay returns the catalog entry for a day number in [1,7].
func ListeningTopicForDay(day int) ListeningTopic {
	idx := (day - 1) % len(listeningTopics)
	if idx < 0 {
		idx = 0
	}
	return listeningTopics[idx]
}
