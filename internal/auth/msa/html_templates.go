package msa

// loginSuccessHTML is served to the browser after the authorization code has
// been captured, so the user knows it is safe to return to the terminal.
const loginSuccessHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Sign-in complete</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            min-height: 100vh;
            margin: 0;
            background: #1e2a38;
            color: #e8edf2;
        }
        .card {
            text-align: center;
            background: #273646;
            padding: 2.5rem 3rem;
            border-radius: 10px;
            box-shadow: 0 10px 25px rgba(0,0,0,0.35);
        }
        .check {
            font-size: 3rem;
            color: #3fb67a;
        }
        p {
            color: #9fb0c0;
        }
    </style>
</head>
<body>
    <div class="card">
        <div class="check">&#10003;</div>
        <h1>Microsoft sign-in complete</h1>
        <p>You can close this window and return to the launcher.</p>
    </div>
</body>
</html>`
