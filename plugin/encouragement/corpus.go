package encouragement

// Corpus is the built-in message table. It covers every category and holds
// context-free messages for the generic fallback.
var Corpus = []Message{
	// Greeting
	{ID: "greeting_001", Text: "今日もTOEIC学習を始めましょう！継続は力なりです。", Emoji: "🌟", Category: CategoryGreeting, Context: []Context{ContextMorning}},
	{ID: "greeting_002", Text: "お疲れ様です！午後の学習タイムですね。集中していきましょう！", Emoji: "☀️", Category: CategoryGreeting, Context: []Context{ContextAfternoon}},
	{ID: "greeting_003", Text: "夜の学習時間ですね。一日の締めくくりに頑張りましょう！", Emoji: "🌙", Category: CategoryGreeting, Context: []Context{ContextEvening}},

	// Progress
	{ID: "progress_001", Text: "素晴らしい進捗です！目標スコアまでもう少しですね。", Emoji: "🎯", Category: CategoryProgress, Context: []Context{ContextHighProgress, ContextNearGoal}},
	{ID: "progress_002", Text: "着実に力を付けています。この調子で続けていきましょう！", Emoji: "📈", Category: CategoryProgress, Context: []Context{ContextHighProgress}},
	{ID: "progress_003", Text: "今日も学習を継続できました。毎日の積み重ねが大きな成果に繋がります。", Emoji: "🔥", Category: CategoryProgress, Context: []Context{ContextStreak}},

	// Motivation
	{ID: "motivation_001", Text: "TOEICスコアアップは一日にしてならず。今日の努力が明日の成果になります！", Emoji: "💪", Category: CategoryMotivation, Context: []Context{ContextLowProgress}},
	{ID: "motivation_002", Text: "難しく感じても大丈夫。挑戦することで成長できます！", Emoji: "🚀", Category: CategoryMotivation, Context: []Context{ContextLowProgress}},
	{ID: "motivation_003", Text: "学習は投資です。今日の時間が将来の可能性を広げます。", Emoji: "💎", Category: CategoryMotivation},

	// Completion
	{ID: "completion_001", Text: "タスク完了おめでとうございます！一歩ずつ前進していますね。", Emoji: "✅", Category: CategoryCompletion},
	{ID: "completion_002", Text: "よくできました！今日の学習成果を実感していますか？", Emoji: "🎉", Category: CategoryCompletion},
	{ID: "completion_003", Text: "素晴らしい集中力でした。この勢いを保ちましょう！", Emoji: "⭐", Category: CategoryCompletion},

	// Goal
	{ID: "goal_001", Text: "目標スコアを設定しましたね！明確な目標は成功への第一歩です。", Emoji: "🎯", Category: CategoryGoal},
	{ID: "goal_002", Text: "高い目標を掲げましたね。チャレンジ精神が素晴らしいです！", Emoji: "🏆", Category: CategoryGoal},

	// Daily
	{ID: "daily_001", Text: "今日も学習に取り組む姿勢が立派です。継続は最大の武器です！", Emoji: "📚", Category: CategoryDaily},
	{ID: "daily_002", Text: "小さな努力も積み重ねれば大きな成果になります。頑張って！", Emoji: "🌱", Category: CategoryDaily},
	{ID: "daily_003", Text: "学習習慣が身についていますね。素晴らしい継続力です！", Emoji: "💫", Category: CategoryDaily, Context: []Context{ContextStreak}},

	// Challenge
	{ID: "challenge_001", Text: "困難は成長のチャンス。今の頑張りが必ず報われます！", Emoji: "🔥", Category: CategoryChallenge, Context: []Context{ContextLowProgress}},
	{ID: "challenge_002", Text: "諦めずに続けることが成功の秘訣です。応援しています！", Emoji: "💪", Category: CategoryChallenge, Context: []Context{ContextLowProgress}},
	{ID: "challenge_003", Text: "今日の学習が明日の自信に繋がります。一歩ずつ進みましょう！", Emoji: "🌟", Category: CategoryChallenge},
}
